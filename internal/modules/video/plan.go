package video

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/studyplan-backend/internal/domain/planning"
)

// ResolvePlan resolves every video-bearing topic of a plan and returns a copy with
// videoId/embedUrl filled in. Topics that are not looked up, or that find nothing,
// get empty strings. A failure on one topic never affects the others.
func (u Usecases) ResolvePlan(ctx context.Context, doc planning.LearningPlanDocument) planning.LearningPlanDocument {
	out := doc.Clone()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.deps.PlanConcurrency)

	var looked, found, invalid int32
	for ui := range out.Units {
		for ti := range out.Units[ui].Topics {
			t := &out.Units[ui].Topics[ti]
			t.VideoID = ""
			t.EmbedURL = ""
			if !t.WantsVideoLookup() {
				continue
			}
			query := t.LookupQuery()
			g.Go(func() error {
				atomic.AddInt32(&looked, 1)
				res, err := u.ResolveVideo(gctx, query, out.SubjectName)
				if err != nil {
					atomic.AddInt32(&invalid, 1)
					u.deps.Log.Debug("plan topic skipped", "topic_id", t.ID, "error", err)
					return nil
				}
				if res.Found {
					atomic.AddInt32(&found, 1)
					t.VideoID = res.VideoID
					t.EmbedURL = res.EmbedURL
				}
				return nil
			})
		}
	}
	_ = g.Wait()

	u.deps.Log.Info("plan videos resolved",
		"subject", out.SubjectName,
		"topics", out.TopicCount(),
		"looked_up", looked,
		"found", found,
		"skipped", invalid,
	)
	return out
}
