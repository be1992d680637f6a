package weather

import (
	"context"
	"time"
)

// Source abstracts the upstream advisory backend that computes weather summaries,
// indicators and advisory text.
type Source interface {
	Name() string
	FetchSummary(ctx context.Context, req SummaryRequest) (AdvisoryPayload, error)
	FetchLatest(ctx context.Context) (AdvisoryPayload, error)
}

// Store is the contract the payload caches (in-memory and Redis) must satisfy.
type Store interface {
	SavePayload(ctx context.Context, key string, payload AdvisoryPayload) error
	GetPayload(ctx context.Context, key string) (CachedPayload, error)
}

// CachedPayload is a stored payload along with the time it was fetched.
type CachedPayload struct {
	Payload   AdvisoryPayload `json:"payload"`
	FetchedAt time.Time       `json:"fetched_at"` // always UTC
}
