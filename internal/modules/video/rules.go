package video

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DurationBand awards Bonus to candidates whose duration lies in [MinSeconds, MaxSeconds].
type DurationBand struct {
	MinSeconds int `yaml:"min_seconds"`
	MaxSeconds int `yaml:"max_seconds"`
	Bonus      int `yaml:"bonus"`
}

func (b DurationBand) contains(seconds int) bool {
	return seconds >= b.MinSeconds && seconds <= b.MaxSeconds
}

// Rules is the complete rule table of eligibility, scoring and selection.
type Rules struct {
	// Query composition.
	QueryQualifiers []string `yaml:"query_qualifiers"`

	// Eligibility.
	MinDurationSeconds  int `yaml:"min_duration_seconds"`
	MaxBlockedCountries int `yaml:"max_blocked_countries"`
	MinAllowedCountries int `yaml:"min_allowed_countries"`

	// Scoring.
	DurationBands           []DurationBand `yaml:"duration_bands"`
	ShortDurationScore      int            `yaml:"short_duration_score"`
	EducationalKeywords     []string       `yaml:"educational_keywords"`
	TitleKeywordBonus       int            `yaml:"title_keyword_bonus"`
	DescriptionKeywordBonus int            `yaml:"description_keyword_bonus"`
	TrustedSources          []string       `yaml:"trusted_sources"`
	TrustedSourceBonus      int            `yaml:"trusted_source_bonus"`
	PenaltyKeywords         []string       `yaml:"penalty_keywords"`
	PenaltyKeywordCost      int            `yaml:"penalty_keyword_cost"`

	// Selection.
	SelectionFloor int `yaml:"selection_floor"`
}

// DefaultRules returns the reference rule table.
func DefaultRules() Rules {
	return Rules{
		QueryQualifiers: []string{"lecture", "tutorial", "explained", "education"},

		MinDurationSeconds:  300,
		MaxBlockedCountries: 50,
		MinAllowedCountries: 10,

		DurationBands: []DurationBand{
			{MinSeconds: 600, MaxSeconds: 2400, Bonus: 40},
			{MinSeconds: 300, MaxSeconds: 3600, Bonus: 20},
		},
		ShortDurationScore: -1000,
		EducationalKeywords: []string{
			"lecture", "tutorial", "explained", "exam", "study", "learn", "course",
			"class", "education", "university", "college", "concept", "theory",
			"introduction", "basics", "nptel",
		},
		TitleKeywordBonus:       15,
		DescriptionKeywordBonus: 5,
		TrustedSources: []string{
			"nptel", "neso academy", "khan academy", "mit opencourseware", "gate smashers",
			"abdul bari", "freecodecamp", "crashcourse", "3blue1brown", "stanford",
			"harvard", "jenny's lectures", "coursera", "edx",
		},
		TrustedSourceBonus: 30,
		PenaltyKeywords:    []string{"shorts", "meme", "funny", "prank", "reaction", "vlog", "gaming"},
		PenaltyKeywordCost: 50,

		SelectionFloor: -500,
	}
}

// LoadRules reads a YAML rule file over the defaults. Keys absent from the
// file keep their default values; lists present in the file replace the default list.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	path = strings.TrimSpace(path)
	if path == "" {
		return rules, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read ranking rules: %w", err)
	}
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse ranking rules %s: %w", path, err)
	}
	rules.normalize()
	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// Validate rejects rule tables that would break the selection invariants.
func (r Rules) Validate() error {
	if r.MinDurationSeconds < 0 {
		return fmt.Errorf("ranking rules: min_duration_seconds must be >= 0")
	}
	if r.MaxBlockedCountries < 0 {
		return fmt.Errorf("ranking rules: max_blocked_countries must be >= 0")
	}
	if r.MinAllowedCountries < 0 {
		return fmt.Errorf("ranking rules: min_allowed_countries must be >= 0")
	}
	if r.ShortDurationScore >= r.SelectionFloor {
		return fmt.Errorf("ranking rules: short_duration_score (%d) must be below selection_floor (%d)", r.ShortDurationScore, r.SelectionFloor)
	}
	for _, b := range r.DurationBands {
		if b.MinSeconds > b.MaxSeconds {
			return fmt.Errorf("ranking rules: duration band %d-%d is inverted", b.MinSeconds, b.MaxSeconds)
		}
	}
	return nil
}

// normalize lowercases keyword lists so matching can compare against lowercased text.
func (r *Rules) normalize() {
	r.EducationalKeywords = lowerAll(r.EducationalKeywords)
	r.TrustedSources = lowerAll(r.TrustedSources)
	r.PenaltyKeywords = lowerAll(r.PenaltyKeywords)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
