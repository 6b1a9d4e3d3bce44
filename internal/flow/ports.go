package flow

import (
	"context"

	"ussd_lms/pkg"
)

// Collaborator ports. Implementations live elsewhere (Supabase, Africa's
// Talking, the AI summarizer); the engine only ever sees these.

// ResourceFinder looks up resources for a subject/grade selection.
type ResourceFinder interface {
	FindResources(ctx context.Context, subject, grade string) ([]pkg.Resource, error)
}

// Notifier delivers a resource link to a phone number. Best-effort: a
// returned error is reported to the user, never retried here.
type Notifier interface {
	SendResourceLink(ctx context.Context, phoneNumber string, r pkg.Resource) error
}

// Summarizer produces a short summary of a resource.
type Summarizer interface {
	Summarize(ctx context.Context, r pkg.Resource) (string, error)
}
