package video

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/yungbote/studyplan-backend/internal/domain/planning"
	domain "github.com/yungbote/studyplan-backend/internal/domain/video"
)

func samplePlan() planning.LearningPlanDocument {
	return planning.LearningPlanDocument{
		SubjectName: "Data Structures",
		Units: []planning.Unit{
			{
				ID:   "u1",
				Name: "Trees",
				Topics: []planning.Topic{
					{ID: "t1", Name: "Binary Search Trees", Importance: planning.ImportanceHigh, HasVideo: true, VideoPlatform: planning.PlatformYouTube, VideoSearchQuery: "BST insertion"},
					{ID: "t2", Name: "Heaps", Importance: planning.ImportanceMedium, HasVideo: true, VideoPlatform: planning.PlatformYouTube},
					{ID: "t3", Name: "Tries", Importance: planning.ImportanceLow, HasVideo: true, VideoPlatform: planning.PlatformNPTEL, VideoID: "stale", EmbedURL: "stale"},
				},
			},
			{
				ID:   "u2",
				Name: "Graphs",
				Topics: []planning.Topic{
					{ID: "t4", Name: "Dijkstra", Importance: planning.ImportanceHigh, HasVideo: false, VideoPlatform: planning.PlatformNone},
					{ID: "t5", Name: "Graph Coloring", Importance: planning.ImportanceLow, HasVideo: true, VideoPlatform: planning.PlatformYouTube},
				},
			},
		},
	}
}

func TestResolvePlan(t *testing.T) {
	cat := newFakeCatalog()
	bst := playable("bst", 900)
	bst.Title = "BST insertion lecture"
	cat.add("BST insertion", bst)
	heap := playable("heap", 900)
	cat.add("Heaps", heap)
	cat.detailsErr["heap"] = domain.ErrUpstreamUnavailable
	// Graph Coloring has no search results at all.

	in := samplePlan()
	u := New(UsecasesDeps{Catalog: cat, Rules: DefaultRules(), Search: DefaultSearchOptions(), PlanConcurrency: 2})
	out := u.ResolvePlan(context.Background(), in)

	want := map[string]string{"t1": "bst", "t2": "", "t3": "", "t4": "", "t5": ""}
	for _, unit := range out.Units {
		for _, topic := range unit.Topics {
			if topic.VideoID != want[topic.ID] {
				t.Errorf("%s: VideoID = %q, want %q", topic.ID, topic.VideoID, want[topic.ID])
			}
			if want[topic.ID] == "" && topic.EmbedURL != "" {
				t.Errorf("%s: EmbedURL = %q, want empty", topic.ID, topic.EmbedURL)
			}
		}
	}
	if got := out.Units[0].Topics[0].EmbedURL; got != "https://www.youtube.com/embed/bst" {
		t.Errorf("t1 EmbedURL = %q", got)
	}

	// only youtube topics with hasVideo are searched
	if len(cat.searches) != 3 {
		t.Errorf("searches = %d, want 3", len(cat.searches))
	}
	for _, s := range cat.searches {
		if s.Query == "" {
			t.Errorf("empty query sent")
		}
	}

	if in.Units[0].Topics[0].VideoID != "" || in.Units[0].Topics[2].VideoID != "stale" {
		t.Errorf("input plan was modified")
	}
}

func TestResolvePlanUsesTopicNameWithoutQuery(t *testing.T) {
	cat := newFakeCatalog()
	heap := playable("heap", 900)
	cat.add("Heaps Data Structures", heap)

	out := newUsecases(cat).ResolvePlan(context.Background(), samplePlan())
	if got := out.Units[0].Topics[1].VideoID; got != "heap" {
		t.Fatalf("VideoID = %q, want heap", got)
	}
}

func TestResolvePlanEmpty(t *testing.T) {
	out := newUsecases(newFakeCatalog()).ResolvePlan(context.Background(), planning.LearningPlanDocument{SubjectName: "Empty"})
	if out.SubjectName != "Empty" || len(out.Units) != 0 {
		t.Fatalf("unexpected plan %+v", out)
	}
}

func TestResolvePlanBoundsConcurrency(t *testing.T) {
	cat := newFakeCatalog()
	cat.searchDelay = 20 * time.Millisecond

	topics := make([]planning.Topic, 0, 20)
	for i := 0; i < 20; i++ {
		topics = append(topics, planning.Topic{
			ID:            fmt.Sprintf("t%d", i),
			Name:          fmt.Sprintf("Topic %d", i),
			Importance:    planning.ImportanceMedium,
			HasVideo:      true,
			VideoPlatform: planning.PlatformYouTube,
		})
	}
	doc := planning.LearningPlanDocument{
		SubjectName: "Physics",
		Units:       []planning.Unit{{ID: "u1", Name: "Mechanics", Topics: topics}},
	}

	u := New(UsecasesDeps{Catalog: cat, Rules: DefaultRules(), Search: DefaultSearchOptions(), PlanConcurrency: 3})
	u.ResolvePlan(context.Background(), doc)

	if len(cat.searches) != 20 {
		t.Fatalf("searches = %d, want 20", len(cat.searches))
	}
	if cat.peak > 3 {
		t.Fatalf("peak concurrent searches = %d, want at most 3", cat.peak)
	}
	if cat.peak < 2 {
		t.Fatalf("peak concurrent searches = %d, topics were not resolved concurrently", cat.peak)
	}
}
