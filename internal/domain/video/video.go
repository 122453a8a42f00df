package video

import (
	"net/url"
	"strings"
)

// Visibility is the catalog privacy status of a video.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPrivate  Visibility = "private"
)

// ParseVisibility maps a catalog privacy status onto Visibility.
func ParseVisibility(raw string) (Visibility, bool) {
	switch Visibility(strings.ToLower(strings.TrimSpace(raw))) {
	case VisibilityPublic:
		return VisibilityPublic, true
	case VisibilityUnlisted:
		return VisibilityUnlisted, true
	case VisibilityPrivate:
		return VisibilityPrivate, true
	default:
		return "", false
	}
}

// ProcessingState is the catalog upload/processing status of a video.
type ProcessingState string

const (
	ProcessingProcessed  ProcessingState = "processed"
	ProcessingInProgress ProcessingState = "processing"
	ProcessingFailed     ProcessingState = "failed"
)

// ParseProcessingState maps a YouTube uploadStatus onto ProcessingState.
// "uploaded" means the file arrived but is still being processed; deleted,
// rejected and failed uploads are all unplayable.
func ParseProcessingState(raw string) (ProcessingState, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "processed":
		return ProcessingProcessed, true
	case "uploaded", "processing":
		return ProcessingInProgress, true
	case "failed", "rejected", "deleted":
		return ProcessingFailed, true
	default:
		return "", false
	}
}

// RegionRestriction carries the optional allow/block country lists reported by the catalog.
// A nil slice means the list is absent; an empty non-nil slice means it is present but empty.
type RegionRestriction struct {
	Allowed []string `json:"allowed,omitempty"`
	Blocked []string `json:"blocked,omitempty"`
}

// CandidateSummary is the minimal identity returned by a catalog search.
type CandidateSummary struct {
	ExternalID string `json:"external_id"`
}

// CandidateDetail is the verified metadata of a single catalog video.
type CandidateDetail struct {
	ExternalID        string            `json:"external_id"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	ChannelName       string            `json:"channel_name"`
	DurationSeconds   int               `json:"duration_seconds"`
	Embeddable        bool              `json:"embeddable"`
	Visibility        Visibility        `json:"visibility"`
	ProcessingState   ProcessingState   `json:"processing_state"`
	RegionRestriction RegionRestriction `json:"region_restriction"`
}

// ScoredCandidate pairs an eligible candidate with its relevance score.
// Rank is the candidate's position in the catalog search response and breaks score ties.
type ScoredCandidate struct {
	Detail CandidateDetail `json:"detail"`
	Score  int             `json:"score"`
	Rank   int             `json:"rank"`
}

// Resolution is the outcome of resolving one topic to a video.
type Resolution struct {
	Found    bool   `json:"found"`
	VideoID  string `json:"video_id,omitempty"`
	EmbedURL string `json:"embed_url,omitempty"`
	Title    string `json:"title,omitempty"`
}

// NotFound is the terminal "no suitable video" result.
func NotFound() Resolution { return Resolution{} }

// EmbedURL builds the player URL for a video id.
func EmbedURL(videoID string) string {
	return "https://www.youtube.com/embed/" + videoID
}

// DurationHint is the coarse length filter passed to the catalog search.
type DurationHint string

const (
	DurationAny    DurationHint = "any"
	DurationShort  DurationHint = "short"
	DurationMedium DurationHint = "medium"
	DurationLong   DurationHint = "long"
)

// SearchRequest is the request-level filter set sent to the catalog search.
type SearchRequest struct {
	Query          string
	MaxResults     int
	EmbeddableOnly bool
	DurationHint   DurationHint
	SafeSearch     bool
	Language       string
}

// SearchURL is the manual-search fallback link for a composed query.
func SearchURL(query string) string {
	return "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)
}
