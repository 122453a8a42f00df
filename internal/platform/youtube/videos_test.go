package youtube

import (
	"context"
	"errors"
	"net/http"
	"testing"

	domain "github.com/yungbote/studyplan-backend/internal/domain/video"
)

const videosBody = `{"items":[
	{"id":"good","snippet":{"title":"BST Explained - Lecture","description":"trees","channelTitle":"Neso Academy"},
	 "contentDetails":{"duration":"PT12M"},
	 "status":{"embeddable":true,"privacyStatus":"public","uploadStatus":"processed"}},
	{"id":"region","snippet":{"title":"r"},
	 "contentDetails":{"duration":"PT1H2M3S","regionRestriction":{"allowed":["US","CA"]}},
	 "status":{"embeddable":false,"privacyStatus":"unlisted","uploadStatus":"uploaded"}},
	{"id":"badduration","snippet":{"title":"x"},"contentDetails":{"duration":"twelve minutes"},
	 "status":{"embeddable":true,"privacyStatus":"public","uploadStatus":"processed"}},
	{"id":"nostatus","snippet":{"title":"x"},"contentDetails":{"duration":"PT10M"}},
	{"id":"weirdprivacy","snippet":{"title":"x"},"contentDetails":{"duration":"PT10M"},
	 "status":{"embeddable":true,"privacyStatus":"secret","uploadStatus":"processed"}},
	{"id":"stranger","snippet":{"title":"x"},"contentDetails":{"duration":"PT10M"},
	 "status":{"embeddable":true,"privacyStatus":"public","uploadStatus":"processed"}}
]}`

func TestFetchDetails(t *testing.T) {
	var asked []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/youtube/v3/videos" {
			t.Errorf("path = %q", r.URL.Path)
		}
		asked = requestedIDs(r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(videosBody))
	}, nil)

	ids := []string{"good", "region", "badduration", "nostatus", "weirdprivacy", "missing", "good", ""}
	got, err := c.FetchDetails(context.Background(), ids)
	if err != nil {
		t.Fatalf("FetchDetails: %v", err)
	}
	if len(asked) != 6 {
		t.Fatalf("requested ids = %v, want 6 unique ids", asked)
	}
	if len(got) != 2 {
		t.Fatalf("got %d details, want 2: %+v", len(got), got)
	}

	g := got[0]
	if g.ExternalID != "good" || g.DurationSeconds != 720 || !g.Embeddable ||
		g.Visibility != domain.VisibilityPublic || g.ProcessingState != domain.ProcessingProcessed ||
		g.ChannelName != "Neso Academy" || g.Title != "BST Explained - Lecture" {
		t.Fatalf("good = %+v", g)
	}
	if g.RegionRestriction.Allowed != nil || g.RegionRestriction.Blocked != nil {
		t.Fatalf("good has region restriction %+v", g.RegionRestriction)
	}

	r := got[1]
	if r.DurationSeconds != 3723 || r.Visibility != domain.VisibilityUnlisted || r.ProcessingState != domain.ProcessingInProgress {
		t.Fatalf("region = %+v", r)
	}
	if len(r.RegionRestriction.Allowed) != 2 {
		t.Fatalf("allowed = %v", r.RegionRestriction.Allowed)
	}
}

func TestFetchDetailsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}, nil)
	got, err := c.FetchDetails(context.Background(), []string{"", " "})
	if err != nil || len(got) != 0 {
		t.Fatalf("FetchDetails = %v, %v", got, err)
	}
}

func TestFetchDetailsFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401,"message":"bad key"}}`))
	}, nil)
	if _, err := c.FetchDetails(context.Background(), []string{"a"}); !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestParseDuration(t *testing.T) {
	cases := map[string]int{
		"PT45S":    45,
		"PT5M":     300,
		"PT1H":     3600,
		"PT1H0M1S": 3601,
		"P0D":      0,
	}
	for in, want := range cases {
		got, err := parseDuration(in)
		if err != nil {
			t.Fatalf("parseDuration(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("parseDuration(%q) = %d, want %d", in, got, want)
		}
	}
	for _, bad := range []string{"", "12:00", "PTXM"} {
		if _, err := parseDuration(bad); err == nil {
			t.Fatalf("parseDuration(%q) accepted", bad)
		}
	}
}
