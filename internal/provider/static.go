// AngelaMos | 2026
// static.go

package provider

import (
	"context"
	"fmt"
	"strings"
)

// StaticGenerator is a deterministic Generator for development
// environments and tests. It produces simple transformations of the
// prompt instead of calling a real model.
type StaticGenerator struct{}

func NewStaticGenerator() *StaticGenerator {
	return &StaticGenerator{}
}

func (s *StaticGenerator) Generate(
	ctx context.Context,
	prompt string,
) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return nil, fmt.Errorf("empty prompt: %w", ErrRejected)
	}

	return []string{
		fmt.Sprintf("Delivered measurable results: %s", trimmed),
		fmt.Sprintf("%s, driving outcomes across the team.", trimmed),
	}, nil
}

var _ Generator = (*StaticGenerator)(nil)
