package youtube

import (
	"context"
	"strings"

	yt "google.golang.org/api/youtube/v3"

	domain "github.com/yungbote/studyplan-backend/internal/domain/video"
)

// Search runs search.list restricted to videos and returns their ids in catalog order.
// Duplicate and empty ids are dropped. Zero matches is an empty slice and no error.
func (c *Client) Search(ctx context.Context, req domain.SearchRequest) ([]domain.CandidateSummary, error) {
	var resp *yt.SearchListResponse
	err := c.call(ctx, "search.list", searchCost, func(ctx context.Context) error {
		call := c.svc.Search.List([]string{"id"}).
			Q(req.Query).
			Type("video").
			MaxResults(int64(req.MaxResults))
		if req.EmbeddableOnly {
			call = call.VideoEmbeddable("true")
		}
		if req.DurationHint != "" && req.DurationHint != domain.DurationAny {
			call = call.VideoDuration(string(req.DurationHint))
		}
		if req.SafeSearch {
			call = call.SafeSearch("strict")
		}
		if lang := strings.TrimSpace(req.Language); lang != "" {
			call = call.RelevanceLanguage(lang)
		}
		r, err := call.Context(ctx).Do()
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.CandidateSummary, 0, len(resp.Items))
	seen := map[string]bool{}
	for _, item := range resp.Items {
		if item == nil || item.Id == nil {
			continue
		}
		id := strings.TrimSpace(item.Id.VideoId)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, domain.CandidateSummary{ExternalID: id})
	}
	return out, nil
}
