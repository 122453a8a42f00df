package video

import (
	"context"
	"sync"

	domain "github.com/yungbote/studyplan-backend/internal/domain/video"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

// Searcher runs a catalog search and returns candidate identities in catalog order.
type Searcher interface {
	Search(ctx context.Context, req domain.SearchRequest) ([]domain.CandidateSummary, error)
}

// DetailFetcher loads verified metadata for a batch of candidate ids.
type DetailFetcher interface {
	FetchDetails(ctx context.Context, ids []string) ([]domain.CandidateDetail, error)
}

type Catalog interface {
	Searcher
	DetailFetcher
}

// SearchOptions are the request-level filters applied to every catalog search.
type SearchOptions struct {
	MaxResults     int
	EmbeddableOnly bool
	DurationHint   domain.DurationHint
	SafeSearch     bool
	Language       string
}

func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		MaxResults:     10,
		EmbeddableOnly: true,
		DurationHint:   domain.DurationMedium,
		SafeSearch:     true,
		Language:       "en",
	}
}

func (o SearchOptions) request(query string) domain.SearchRequest {
	n := o.MaxResults
	if n < 1 {
		n = 1
	}
	if n > 50 {
		n = 50
	}
	hint := o.DurationHint
	if hint == "" {
		hint = domain.DurationAny
	}
	return domain.SearchRequest{
		Query:          query,
		MaxResults:     n,
		EmbeddableOnly: o.EmbeddableOnly,
		DurationHint:   hint,
		SafeSearch:     o.SafeSearch,
		Language:       o.Language,
	}
}

type UsecasesDeps struct {
	Log     *logger.Logger
	Catalog Catalog

	Rules  Rules
	Search SearchOptions

	// PlanConcurrency bounds concurrent topic resolutions in ResolvePlan.
	PlanConcurrency int
}

type Usecases struct {
	deps UsecasesDeps

	// shared across copies so missing credentials are reported once per process
	noCreds *sync.Once
}

func New(deps UsecasesDeps) Usecases {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.PlanConcurrency < 1 {
		deps.PlanConcurrency = 4
	}
	return Usecases{deps: deps, noCreds: &sync.Once{}}
}

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

func (u Usecases) Rules() Rules { return u.deps.Rules }
