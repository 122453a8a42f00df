package youtube

import (
	"context"
	"fmt"
	"strings"

	"github.com/sosodev/duration"
	yt "google.golang.org/api/youtube/v3"

	domain "github.com/yungbote/studyplan-backend/internal/domain/video"
)

// videos.list accepts at most 50 ids per request.
const maxIDsPerCall = 50

// FetchDetails loads status, content details and snippet for ids. Ids the catalog
// does not return are dropped, and malformed items are skipped with a debug log.
func (c *Client) FetchDetails(ctx context.Context, ids []string) ([]domain.CandidateDetail, error) {
	requested := make(map[string]bool, len(ids))
	batch := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || requested[id] {
			continue
		}
		requested[id] = true
		batch = append(batch, id)
	}
	if len(batch) == 0 {
		return nil, nil
	}

	out := make([]domain.CandidateDetail, 0, len(batch))
	for start := 0; start < len(batch); start += maxIDsPerCall {
		end := start + maxIDsPerCall
		if end > len(batch) {
			end = len(batch)
		}
		chunk := batch[start:end]

		var resp *yt.VideoListResponse
		err := c.call(ctx, "videos.list", videosCost, func(ctx context.Context) error {
			r, err := c.svc.Videos.List([]string{"snippet", "contentDetails", "status"}).
				Id(chunk...).
				Context(ctx).
				Do()
			if err != nil {
				return err
			}
			resp = r
			return nil
		})
		if err != nil {
			return nil, err
		}

		for _, item := range resp.Items {
			d, err := parseVideo(item)
			if err != nil {
				c.log.Debug("skipping malformed video item", "error", err)
				continue
			}
			if !requested[d.ExternalID] {
				c.log.Debug("skipping unrequested video item", "video_id", d.ExternalID)
				continue
			}
			out = append(out, d)
		}
	}
	return out, nil
}

func parseVideo(v *yt.Video) (domain.CandidateDetail, error) {
	if v == nil {
		return domain.CandidateDetail{}, fmt.Errorf("nil item")
	}
	id := strings.TrimSpace(v.Id)
	if id == "" {
		return domain.CandidateDetail{}, fmt.Errorf("missing id")
	}
	if v.Status == nil || v.ContentDetails == nil || v.Snippet == nil {
		return domain.CandidateDetail{}, fmt.Errorf("video %s: missing status, contentDetails or snippet", id)
	}

	vis, ok := domain.ParseVisibility(v.Status.PrivacyStatus)
	if !ok {
		return domain.CandidateDetail{}, fmt.Errorf("video %s: unknown privacy status %q", id, v.Status.PrivacyStatus)
	}
	state, ok := domain.ParseProcessingState(v.Status.UploadStatus)
	if !ok {
		return domain.CandidateDetail{}, fmt.Errorf("video %s: unknown upload status %q", id, v.Status.UploadStatus)
	}
	seconds, err := parseDuration(v.ContentDetails.Duration)
	if err != nil {
		return domain.CandidateDetail{}, fmt.Errorf("video %s: %w", id, err)
	}

	var rr domain.RegionRestriction
	if r := v.ContentDetails.RegionRestriction; r != nil {
		rr.Allowed = r.Allowed
		rr.Blocked = r.Blocked
	}

	return domain.CandidateDetail{
		ExternalID:        id,
		Title:             v.Snippet.Title,
		Description:       v.Snippet.Description,
		ChannelName:       v.Snippet.ChannelTitle,
		DurationSeconds:   seconds,
		Embeddable:        v.Status.Embeddable,
		Visibility:        vis,
		ProcessingState:   state,
		RegionRestriction: rr,
	}, nil
}

// parseDuration converts an ISO-8601 duration such as PT12M30S to whole seconds.
func parseDuration(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("missing duration")
	}
	d, err := duration.Parse(raw)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", raw, err)
	}
	secs := int(d.ToTimeDuration().Seconds())
	if secs < 0 {
		return 0, fmt.Errorf("negative duration %q", raw)
	}
	return secs, nil
}
