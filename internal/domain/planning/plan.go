package planning

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

type VideoPlatform string

const (
	PlatformYouTube     VideoPlatform = "youtube"
	PlatformNPTEL       VideoPlatform = "nptel"
	PlatformCodeAcademy VideoPlatform = "codeacademy"
	PlatformNone        VideoPlatform = "none"
)

// LearningPlanDocument is the structured plan produced from a syllabus.
// Field names follow the JSON contract of the plan generator.
type LearningPlanDocument struct {
	SubjectName         string  `json:"subjectName" validate:"required"`
	UniversityName      string  `json:"universityName"`
	TotalEstimatedHours float64 `json:"totalEstimatedHours" validate:"gte=0"`
	Units               []Unit  `json:"units" validate:"required,min=1,dive"`
}

type Unit struct {
	ID             string  `json:"id" validate:"required"`
	Name           string  `json:"name" validate:"required"`
	EstimatedHours float64 `json:"estimatedHours" validate:"gte=0"`
	Topics         []Topic `json:"topics" validate:"dive"`
}

type Topic struct {
	ID               string        `json:"id" validate:"required"`
	Name             string        `json:"name" validate:"required"`
	Duration         string        `json:"duration"`
	Importance       Importance    `json:"importance" validate:"required,oneof=high medium low"`
	HasVideo         bool          `json:"hasVideo"`
	VideoPlatform    VideoPlatform `json:"videoPlatform" validate:"omitempty,oneof=youtube nptel codeacademy none"`
	VideoSearchQuery string        `json:"videoSearchQuery"`
	HasPractice      bool          `json:"hasPractice"`
	VideoID          string        `json:"videoId"`
	EmbedURL         string        `json:"embedUrl"`
}

// WantsVideoLookup reports whether the topic should be resolved against the video catalog.
func (t Topic) WantsVideoLookup() bool {
	return t.HasVideo && strings.EqualFold(string(t.VideoPlatform), string(PlatformYouTube))
}

// LookupQuery is the free-text topic fed to the query builder.
func (t Topic) LookupQuery() string {
	if q := strings.TrimSpace(t.VideoSearchQuery); q != "" {
		return q
	}
	return strings.TrimSpace(t.Name)
}

// TopicCount returns the number of topics across all units.
func (d LearningPlanDocument) TopicCount() int {
	n := 0
	for _, u := range d.Units {
		n += len(u.Topics)
	}
	return n
}

// Clone returns a deep copy so callers can write topic slots without touching the input.
func (d LearningPlanDocument) Clone() LearningPlanDocument {
	out := d
	out.Units = make([]Unit, len(d.Units))
	for i, u := range d.Units {
		cu := u
		cu.Topics = append([]Topic(nil), u.Topics...)
		out.Units[i] = cu
	}
	return out
}

var validate = validator.New()

// Validate checks the document shape and that topic ids are unique across units.
func (d LearningPlanDocument) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("invalid learning plan: %w", err)
	}
	seen := map[string]bool{}
	for _, u := range d.Units {
		for _, t := range u.Topics {
			if seen[t.ID] {
				return fmt.Errorf("invalid learning plan: duplicate topic id %q", t.ID)
			}
			seen[t.ID] = true
		}
	}
	return nil
}

// Normalize applies the video rules in place: a topic without a platform cannot
// carry a video, and a topic without a video has platform "none" and no query.
// Resolved video fields are cleared; they are only ever written by resolution.
func (d *LearningPlanDocument) Normalize() {
	for i := range d.Units {
		for j := range d.Units[i].Topics {
			t := &d.Units[i].Topics[j]
			t.VideoPlatform = VideoPlatform(strings.ToLower(strings.TrimSpace(string(t.VideoPlatform))))
			if t.VideoPlatform == "" || t.VideoPlatform == PlatformNone {
				t.HasVideo = false
			}
			if !t.HasVideo {
				t.VideoPlatform = PlatformNone
				t.VideoSearchQuery = ""
			}
			t.VideoID = ""
			t.EmbedURL = ""
		}
	}
}
