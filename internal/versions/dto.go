// AngelaMos | 2026
// dto.go

package versions

import (
	"github.com/carterperez-dev/resumeforge/internal/provider"
)

type EditSectionRequest struct {
	Text string `json:"text" validate:"required,max=10000"`
}

type ProposeRequest struct {
	ProviderID string `json:"provider_id" validate:"omitempty,max=64"`
}

type AcceptRequest struct {
	CandidateText string `json:"candidate_text" validate:"required,max=10000"`
	KeepOriginal  bool   `json:"keep_original"`
}

type SectionResponse struct {
	ResumeID     string `json:"resume_id"`
	Section      string `json:"section"`
	CurrentText  string `json:"current_text"`
	IsAIAuthored bool   `json:"is_ai_authored"`
	CanUndo      bool   `json:"can_undo"`
	// OriginalText is populated on accept when keep_original was set, so
	// the client can present both variants. The store itself keeps only
	// the adopted text plus one undo level.
	OriginalText *string `json:"original_text,omitempty"`
}

type ProposalResponse struct {
	ProposalID string               `json:"proposal_id"`
	Candidates []provider.Candidate `json:"candidates"`
}

type UndoResponse struct {
	SectionResponse
	Undone bool   `json:"undone"`
	Result string `json:"result"`
}

type HistoryEntry struct {
	Text       string `json:"text"`
	AIAuthored bool   `json:"ai_authored"`
	Current    bool   `json:"current"`
}

type HistoryResponse struct {
	ResumeID string         `json:"resume_id"`
	Section  string         `json:"section"`
	Entries  []HistoryEntry `json:"entries"`
}

func ToSectionResponse(s *Section) SectionResponse {
	return SectionResponse{
		ResumeID:     s.ResumeID,
		Section:      s.Name,
		CurrentText:  s.CurrentText,
		IsAIAuthored: s.IsAIAuthored,
		CanUndo:      s.CanUndo(),
	}
}

func ToHistoryResponse(s *Section) HistoryResponse {
	entries := []HistoryEntry{
		{Text: s.CurrentText, AIAuthored: s.IsAIAuthored, Current: true},
	}
	if s.PreviousText != nil {
		entries = append(entries, HistoryEntry{Text: *s.PreviousText})
	}

	return HistoryResponse{
		ResumeID: s.ResumeID,
		Section:  s.Name,
		Entries:  entries,
	}
}
