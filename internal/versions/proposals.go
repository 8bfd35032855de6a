// AngelaMos | 2026
// proposals.go

package versions

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/resumeforge/internal/provider"
)

// proposalCache holds the in-flight candidate list per section. Last
// propose wins: a new entry silently replaces any unconsumed one.
type proposalCache struct {
	mu      sync.Mutex
	entries map[string]*Proposal
}

func newProposalCache() *proposalCache {
	return &proposalCache{entries: make(map[string]*Proposal)}
}

func sectionKey(resumeID, name string) string {
	return resumeID + "/" + name
}

func (c *proposalCache) put(
	resumeID, name string,
	candidates []provider.Candidate,
) *Proposal {
	p := &Proposal{
		ID:         uuid.New().String(),
		ResumeID:   resumeID,
		Section:    name,
		Candidates: candidates,
		CreatedAt:  time.Now().UTC(),
	}

	c.mu.Lock()
	c.entries[sectionKey(resumeID, name)] = p
	c.mu.Unlock()

	return p
}

func (c *proposalCache) get(resumeID, name string) (*Proposal, bool) {
	c.mu.Lock()
	p, ok := c.entries[sectionKey(resumeID, name)]
	c.mu.Unlock()
	return p, ok
}

func (c *proposalCache) discard(resumeID, name string) {
	c.mu.Lock()
	delete(c.entries, sectionKey(resumeID, name))
	c.mu.Unlock()
}
