package ai

import (
	"context"
	"fmt"

	"ussd_lms/pkg"
)

// StaticSummarizer is used when no model credentials are configured. It
// produces a canned summary so the flow stays usable in development.
type StaticSummarizer struct{}

// NewStaticSummarizer creates the canned summarizer.
func NewStaticSummarizer() *StaticSummarizer {
	return &StaticSummarizer{}
}

// Summarize returns a generic summary for the resource.
func (s *StaticSummarizer) Summarize(ctx context.Context, r pkg.Resource) (string, error) {
	summary := fmt.Sprintf(
		"This %s resource for %s students covers fundamental concepts and provides practical examples. It's designed to help students understand core principles and apply them in real-world scenarios.",
		r.Subject, r.Grade,
	)
	return clampSummary(summary), nil
}
