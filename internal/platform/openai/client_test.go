package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/studyplan-backend/internal/domain/planning"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

const planArgs = `{
  "subjectName": "Data Structures",
  "universityName": "Anna University",
  "totalEstimatedHours": 12,
  "units": [
    {"id": "u1", "name": "Trees", "estimatedHours": 6, "topics": [
      {"id": "t1", "name": "Binary Search Trees", "duration": "2h", "importance": "high",
       "hasVideo": true, "videoPlatform": "youtube", "videoSearchQuery": "BST insertion deletion", "hasPractice": true},
      {"id": "t2", "name": "AVL Trees", "duration": "2h", "importance": "medium",
       "hasVideo": false, "videoPlatform": "youtube", "videoSearchQuery": "avl", "hasPractice": true}
    ]}
  ]
}`

func chatResponse(args string) string {
	escaped, _ := json.Marshal(args)
	return `{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","tool_calls":[
		{"id":"call_1","type":"function","function":{"name":"create_learning_plan","arguments":` + string(escaped) + `}}]},
		"finish_reason":"tool_calls"}]}`
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(logger.Nop(), Config{
		APIKey:     "sk-test",
		BaseURL:    srv.URL + "/v1",
		Model:      "test-model",
		Timeout:    5 * time.Second,
		MaxRetries: 1,
		RetryBase:  time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestGeneratePlan(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["model"] != "test-model" {
			t.Errorf("model = %v", req["model"])
		}
		if !strings.Contains(string(body), `"create_learning_plan"`) || !strings.Contains(string(body), "Anna University") {
			t.Errorf("request missing tool or prompt: %s", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatResponse(planArgs)))
	})

	doc, err := c.GeneratePlan(context.Background(), PlanRequest{
		SubjectName:    "Data Structures",
		UniversityName: "Anna University",
		SyllabusText:   "Unit 1: Trees - BST, AVL",
	})
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if doc.TopicCount() != 2 || doc.TotalEstimatedHours != 12 {
		t.Fatalf("doc = %+v", doc)
	}
	t1, t2 := doc.Units[0].Topics[0], doc.Units[0].Topics[1]
	if !t1.WantsVideoLookup() || t1.VideoSearchQuery != "BST insertion deletion" {
		t.Fatalf("t1 = %+v", t1)
	}
	if t2.HasVideo || t2.VideoPlatform != planning.PlatformNone || t2.VideoSearchQuery != "" {
		t.Fatalf("t2 not normalized: %+v", t2)
	}
}

func TestGeneratePlanRetriesServerErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream","type":"server_error"}}`))
			return
		}
		_, _ = w.Write([]byte(chatResponse(planArgs)))
	})
	if _, err := c.GeneratePlan(context.Background(), PlanRequest{SubjectName: "DS", SyllabusText: "trees"}); err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestGeneratePlanFailures(t *testing.T) {
	cases := []struct {
		name string
		h    http.HandlerFunc
	}{
		{"unauthorized", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
		}},
		{"no tool call", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"sorry"}}]}`))
		}},
		{"invalid json arguments", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(chatResponse(`{"subjectName":`)))
		}},
		{"fails validation", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(chatResponse(`{"subjectName":"DS","units":[]}`)))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, tc.h)
			_, err := c.GeneratePlan(context.Background(), PlanRequest{SubjectName: "DS", SyllabusText: "trees"})
			if !errors.Is(err, ErrPlanGeneration) {
				t.Fatalf("err = %v, want ErrPlanGeneration", err)
			}
		})
	}
}

func TestGeneratePlanRequiresSyllabus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	if _, err := c.GeneratePlan(context.Background(), PlanRequest{SubjectName: "DS"}); !errors.Is(err, ErrPlanGeneration) {
		t.Fatalf("err = %v", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(logger.Nop(), Config{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}
