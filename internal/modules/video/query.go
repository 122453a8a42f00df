package video

import (
	"fmt"
	"strings"

	domain "github.com/yungbote/studyplan-backend/internal/domain/video"
)

// SearchQuery is the catalog query derived from a topic and its subject context.
type SearchQuery struct {
	RawTopic string
	Context  string
	Composed string
}

// BuildQuery composes "<topic> <context> <qualifiers...>". Whitespace is collapsed,
// the context is skipped when the topic already contains it, and a blank topic is
// rejected with ErrInvalidInput.
func BuildQuery(topic, context string, qualifiers []string) (SearchQuery, error) {
	topic = collapseSpaces(topic)
	context = collapseSpaces(context)
	if topic == "" {
		return SearchQuery{}, fmt.Errorf("build query: empty topic: %w", domain.ErrInvalidInput)
	}

	parts := []string{topic}
	lowerTopic := strings.ToLower(topic)
	if context != "" && !strings.Contains(lowerTopic, strings.ToLower(context)) {
		parts = append(parts, context)
	}
	for _, q := range qualifiers {
		if q = collapseSpaces(q); q != "" {
			parts = append(parts, q)
		}
	}

	return SearchQuery{
		RawTopic: topic,
		Context:  context,
		Composed: strings.Join(parts, " "),
	}, nil
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FallbackSearchURL is the manual search link shown next to a topic. It uses the
// same composed query as resolution and is empty for a blank topic.
func (u Usecases) FallbackSearchURL(topic, subject string) string {
	q, err := BuildQuery(topic, subject, u.deps.Rules.QueryQualifiers)
	if err != nil {
		return ""
	}
	return domain.SearchURL(q.Composed)
}
