package video

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	domain "github.com/yungbote/studyplan-backend/internal/domain/video"
	"github.com/yungbote/studyplan-backend/internal/observability"
)

const tracerName = "github.com/yungbote/studyplan-backend/internal/modules/video"

// Outcome is a resolution together with the intermediate state that produced it.
type Outcome struct {
	Query      SearchQuery
	Resolution domain.Resolution
	Searched   int
	Fetched    int
	Eligible   int
	Ranked     []domain.ScoredCandidate
}

// Resolve runs the full pipeline for one topic and returns every error unchanged.
// Most callers want ResolveVideo, which applies the per-topic error policy.
func (u Usecases) Resolve(ctx context.Context, topic, subject string) (Outcome, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "video.resolve")
	defer span.End()

	q, err := BuildQuery(topic, subject, u.deps.Rules.QueryQualifiers)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Outcome{Resolution: domain.NotFound()}, err
	}
	out := Outcome{Query: q, Resolution: domain.NotFound()}
	span.SetAttributes(attribute.String("video.query", q.Composed))

	if u.deps.Catalog == nil {
		return out, domain.ErrNoCredentials
	}

	summaries, err := u.search(ctx, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return out, err
	}
	ids := candidateIDs(summaries)
	out.Searched = len(ids)
	span.SetAttributes(attribute.Int("video.search_results", len(ids)))
	if len(ids) == 0 {
		span.SetAttributes(attribute.Bool("video.found", false))
		return out, nil
	}

	details, err := u.fetch(ctx, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "detail fetch failed")
		return out, err
	}
	details = inSearchOrder(ids, details)
	out.Fetched = len(details)

	rules := u.deps.Rules
	eligible := make([]domain.CandidateDetail, 0, len(details))
	for _, d := range details {
		if reason := Ineligibility(d, rules); reason != "" {
			u.deps.Log.Debug("video candidate rejected", "video_id", d.ExternalID, "reason", reason)
			continue
		}
		eligible = append(eligible, d)
	}
	out.Eligible = len(eligible)

	scored := ScoreAll(eligible, rules)
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	for i := range scored {
		scored[i].Rank = pos[scored[i].Detail.ExternalID]
	}
	out.Ranked = Rank(scored, rules)
	res, found := Select(scored, rules)
	out.Resolution = res

	span.SetAttributes(
		attribute.Int("video.details", len(details)),
		attribute.Int("video.eligible", len(eligible)),
		attribute.Bool("video.found", found),
	)
	if found {
		span.SetAttributes(attribute.String("video.id", res.VideoID))
	}
	return out, nil
}

// ResolveVideo resolves one topic to at most one video. Catalog failures and
// missing credentials are reported as not found; only unusable input is an error.
func (u Usecases) ResolveVideo(ctx context.Context, topic, subject string) (domain.Resolution, error) {
	metrics := observability.Current()
	out, err := u.Resolve(ctx, topic, subject)
	if err == nil {
		if out.Resolution.Found {
			metrics.ObserveResolution("found")
		} else {
			metrics.ObserveResolution("not_found")
		}
		return out.Resolution, nil
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		metrics.ObserveResolution("invalid_input")
		return domain.NotFound(), err
	case errors.Is(err, domain.ErrNoCredentials):
		metrics.ObserveResolution("no_credentials")
		u.noCreds.Do(func() {
			u.deps.Log.Error("video catalog disabled; every topic resolves to not found", "error", err)
		})
		return domain.NotFound(), nil
	case errors.Is(err, context.Canceled):
		metrics.ObserveResolution("canceled")
		return domain.NotFound(), err
	default:
		metrics.ObserveResolution("upstream_error")
		u.deps.Log.Warn("video resolution failed; treating as not found",
			"topic", strings.TrimSpace(topic),
			"query", out.Query.Composed,
			"error", err,
		)
		return domain.NotFound(), nil
	}
}

func (u Usecases) search(ctx context.Context, q SearchQuery) ([]domain.CandidateSummary, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "video.search")
	defer span.End()
	res, err := u.deps.Catalog.Search(ctx, u.deps.Search.request(q.Composed))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("catalog search: %w", err)
	}
	span.SetAttributes(attribute.Int("video.results", len(res)))
	return res, nil
}

func (u Usecases) fetch(ctx context.Context, ids []string) ([]domain.CandidateDetail, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "video.details")
	defer span.End()
	span.SetAttributes(attribute.Int("video.requested", len(ids)))
	res, err := u.deps.Catalog.FetchDetails(ctx, ids)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("catalog details: %w", err)
	}
	return res, nil
}

// candidateIDs drops empty and duplicate ids, keeping the first occurrence.
func candidateIDs(in []domain.CandidateSummary) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		id := strings.TrimSpace(s.ExternalID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// inSearchOrder reorders details to follow the search ranking and drops ids that
// were never requested, so Rank always reflects the catalog search position.
func inSearchOrder(ids []string, details []domain.CandidateDetail) []domain.CandidateDetail {
	byID := make(map[string]domain.CandidateDetail, len(details))
	for _, d := range details {
		if _, dup := byID[d.ExternalID]; !dup {
			byID[d.ExternalID] = d
		}
	}
	out := make([]domain.CandidateDetail, 0, len(details))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			out = append(out, d)
		}
	}
	return out
}
