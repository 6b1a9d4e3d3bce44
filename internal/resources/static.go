package resources

import (
	"context"
	"fmt"

	"ussd_lms/pkg"
)

// StaticFinder serves generated sample data for development and demos,
// when no upstream store is configured.
type StaticFinder struct{}

// NewStaticFinder creates a finder backed by generated sample data.
func NewStaticFinder() *StaticFinder {
	return &StaticFinder{}
}

// FindResources fabricates two entries for any subject/grade pair.
func (f *StaticFinder) FindResources(ctx context.Context, subject, grade string) ([]pkg.Resource, error) {
	return []pkg.Resource{
		{
			ID:          "1",
			Title:       fmt.Sprintf("%s Basics for %s", subject, grade),
			Description: fmt.Sprintf("Fundamental concepts in %s for %s level students", subject, grade),
			FileURL:     "https://example.com/resource1.pdf",
			Subject:     subject,
			Grade:       grade,
		},
		{
			ID:          "2",
			Title:       fmt.Sprintf("%s Advanced Topics - %s", subject, grade),
			Description: fmt.Sprintf("Advanced %s topics suitable for %s students", subject, grade),
			FileURL:     "https://example.com/resource2.pdf",
			Subject:     subject,
			Grade:       grade,
		},
	}, nil
}
