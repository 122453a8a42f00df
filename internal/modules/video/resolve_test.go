package video

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	domain "github.com/yungbote/studyplan-backend/internal/domain/video"
)

// fakeCatalog serves canned search results per query substring. Topics are
// matched in registration order, so the first added topic contained in a query wins.
type fakeCatalog struct {
	mu sync.Mutex

	topics     []string
	results    map[string][]domain.CandidateSummary
	details    map[string]domain.CandidateDetail
	searchErr  error
	detailsErr map[string]error // keyed by video id

	searches     []domain.SearchRequest
	detailCalls  int
	lastDetailID []string

	// searchDelay holds each Search open so overlapping calls can be counted.
	searchDelay time.Duration
	inflight    int
	peak        int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		results:    map[string][]domain.CandidateSummary{},
		details:    map[string]domain.CandidateDetail{},
		detailsErr: map[string]error{},
	}
}

func (f *fakeCatalog) add(topic string, ds ...domain.CandidateDetail) {
	if _, ok := f.results[topic]; !ok {
		f.topics = append(f.topics, topic)
		f.results[topic] = nil
	}
	for _, d := range ds {
		f.results[topic] = append(f.results[topic], domain.CandidateSummary{ExternalID: d.ExternalID})
		f.details[d.ExternalID] = d
	}
}

func (f *fakeCatalog) Search(ctx context.Context, req domain.SearchRequest) ([]domain.CandidateSummary, error) {
	f.mu.Lock()
	f.searches = append(f.searches, req)
	f.inflight++
	if f.inflight > f.peak {
		f.peak = f.inflight
	}
	delay := f.searchDelay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inflight--
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	for _, k := range f.topics {
		if strings.Contains(req.Query, k) {
			return append([]domain.CandidateSummary(nil), f.results[k]...), nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) FetchDetails(ctx context.Context, ids []string) ([]domain.CandidateDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls++
	f.lastDetailID = append([]string(nil), ids...)
	for _, id := range ids {
		if err, ok := f.detailsErr[id]; ok {
			return nil, err
		}
	}
	var out []domain.CandidateDetail
	// reverse order: the resolver must not rely on response order
	for i := len(ids) - 1; i >= 0; i-- {
		if d, ok := f.details[ids[i]]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func newUsecases(cat Catalog) Usecases {
	return New(UsecasesDeps{
		Catalog: cat,
		Rules:   DefaultRules(),
		Search:  DefaultSearchOptions(),
	})
}

func TestResolveVideoTrustedLecture(t *testing.T) {
	cat := newFakeCatalog()
	d := playable("bst720", 720)
	d.Title = "BST Explained - Lecture"
	d.ChannelName = "Neso Academy"
	cat.add("Binary Search Trees", d)

	u := newUsecases(cat)
	out, err := u.Resolve(context.Background(), "Binary Search Trees", "Data Structures")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !out.Resolution.Found || out.Resolution.VideoID != "bst720" {
		t.Fatalf("Resolution = %+v", out.Resolution)
	}
	if len(out.Ranked) != 1 || out.Ranked[0].Score != 100 {
		t.Fatalf("Ranked = %+v, want single candidate scoring 100", out.Ranked)
	}
	if out.Resolution.EmbedURL != "https://www.youtube.com/embed/bst720" {
		t.Fatalf("EmbedURL = %q", out.Resolution.EmbedURL)
	}

	req := cat.searches[0]
	if req.Query != "Binary Search Trees Data Structures lecture tutorial explained education" {
		t.Fatalf("query = %q", req.Query)
	}
	if !req.EmbeddableOnly || !req.SafeSearch || req.MaxResults != 10 || req.DurationHint != domain.DurationMedium || req.Language != "en" {
		t.Fatalf("search filters = %+v", req)
	}
}

func TestResolveVideoShortClipNotFound(t *testing.T) {
	cat := newFakeCatalog()
	d := playable("short", 45)
	d.Title = "BST Shorts"
	cat.add("Binary Search Trees", d)

	res, err := newUsecases(cat).ResolveVideo(context.Background(), "Binary Search Trees", "Data Structures")
	if err != nil {
		t.Fatalf("ResolveVideo: %v", err)
	}
	if res.Found {
		t.Fatalf("Resolution = %+v, want not found", res)
	}
}

func TestResolveVideoNoSearchResults(t *testing.T) {
	cat := newFakeCatalog()
	res, err := newUsecases(cat).ResolveVideo(context.Background(), "Obscure Topic", "Nothing")
	if err != nil {
		t.Fatalf("ResolveVideo: %v", err)
	}
	if res.Found {
		t.Fatalf("Resolution = %+v, want not found", res)
	}
	if cat.detailCalls != 0 {
		t.Fatalf("detail fetcher called %d times", cat.detailCalls)
	}
}

func TestResolveVideoUpstreamFailureIsNotFound(t *testing.T) {
	cat := newFakeCatalog()
	cat.add("Heaps", playable("heap", 900))
	cat.detailsErr["heap"] = fmt.Errorf("videos.list: %w", domain.ErrUpstreamUnavailable)

	u := newUsecases(cat)
	if _, err := u.Resolve(context.Background(), "Heaps", "DS"); !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("Resolve err = %v, want ErrUpstreamUnavailable", err)
	}
	res, err := u.ResolveVideo(context.Background(), "Heaps", "DS")
	if err != nil || res.Found {
		t.Fatalf("ResolveVideo = %+v, %v; want not found without error", res, err)
	}

	cat.searchErr = domain.ErrUpstreamUnavailable
	res, err = u.ResolveVideo(context.Background(), "Heaps", "DS")
	if err != nil || res.Found {
		t.Fatalf("ResolveVideo on search failure = %+v, %v", res, err)
	}
}

func TestResolveVideoInvalidInput(t *testing.T) {
	_, err := newUsecases(newFakeCatalog()).ResolveVideo(context.Background(), "   ", "DS")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

type noCredsCatalog struct{ calls int }

func (c *noCredsCatalog) Search(context.Context, domain.SearchRequest) ([]domain.CandidateSummary, error) {
	c.calls++
	return nil, domain.ErrNoCredentials
}

func (c *noCredsCatalog) FetchDetails(context.Context, []string) ([]domain.CandidateDetail, error) {
	return nil, domain.ErrNoCredentials
}

func TestResolveVideoNoCredentials(t *testing.T) {
	cat := &noCredsCatalog{}
	u := newUsecases(cat)
	for i := 0; i < 3; i++ {
		res, err := u.ResolveVideo(context.Background(), "Graphs", "Algorithms")
		if err != nil || res.Found {
			t.Fatalf("ResolveVideo = %+v, %v", res, err)
		}
	}

	res, err := newUsecases(nil).ResolveVideo(context.Background(), "Graphs", "Algorithms")
	if err != nil || res.Found {
		t.Fatalf("nil catalog: ResolveVideo = %+v, %v", res, err)
	}
}

func TestResolvePicksBestAndKeepsSearchRank(t *testing.T) {
	cat := newFakeCatalog()
	weak := playable("weak", 4000)
	weak.Title = "Sorting"
	tieA := playable("tieA", 900)
	tieA.Title = "Sorting lecture"
	tieB := playable("tieB", 900)
	tieB.Title = "Sorting lecture"
	hidden := playable("hidden", 900)
	hidden.Title = "Sorting lecture explained course"
	hidden.Embeddable = false
	cat.add("Sorting", weak, hidden, tieA, tieB)
	// duplicate and empty ids in the search response
	cat.results["Sorting"] = append(cat.results["Sorting"], domain.CandidateSummary{ExternalID: "tieA"}, domain.CandidateSummary{})

	out, err := newUsecases(cat).Resolve(context.Background(), "Sorting", "Algorithms")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if out.Resolution.VideoID != "tieA" {
		t.Fatalf("VideoID = %q, want tieA", out.Resolution.VideoID)
	}
	if len(cat.lastDetailID) != 4 {
		t.Fatalf("detail ids = %v, want 4 unique ids", cat.lastDetailID)
	}
	if out.Eligible != 3 {
		t.Fatalf("Eligible = %d, want 3", out.Eligible)
	}
	if out.Ranked[0].Rank != 2 || out.Ranked[1].Rank != 3 {
		t.Fatalf("ranks = %d,%d; want search positions 2,3", out.Ranked[0].Rank, out.Ranked[1].Rank)
	}
}

func TestResolveIdempotent(t *testing.T) {
	cat := newFakeCatalog()
	a := playable("a", 1000)
	a.Title = "Kinematics lecture"
	b := playable("b", 1000)
	b.Title = "Kinematics lecture"
	b.ChannelName = "Khan Academy"
	cat.add("Kinematics", a, b)

	u := newUsecases(cat)
	first, _ := u.ResolveVideo(context.Background(), "Kinematics", "Physics")
	for i := 0; i < 10; i++ {
		got, _ := u.ResolveVideo(context.Background(), "Kinematics", "Physics")
		if got != first {
			t.Fatalf("run %d: %+v != %+v", i, got, first)
		}
	}
	if first.VideoID != "b" {
		t.Fatalf("VideoID = %q, want b", first.VideoID)
	}
}

func TestFakeCatalogMatchesInRegistrationOrder(t *testing.T) {
	cat := newFakeCatalog()
	cat.add("Trees", playable("generic", 900))
	cat.add("Binary Search Trees", playable("bst", 900))
	for i := 0; i < 20; i++ {
		got, err := cat.Search(context.Background(), domain.SearchRequest{Query: "Binary Search Trees lecture"})
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(got) != 1 || got[0].ExternalID != "generic" {
			t.Fatalf("Search = %+v, want the first registered topic", got)
		}
	}
}
