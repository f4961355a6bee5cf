package catalog

import (
	"fmt"
	"strings"
)

// Wildcard is the marker table pattern used when no other pattern matches.
const Wildcard = "*"

// StartMarker is the text the extracted description starts at.
const StartMarker = "Learning outcomes"

// TranslationRule replaces every occurrence of Match with Replacement.
type TranslationRule struct {
	Match       string `json:"match" yaml:"match"`
	Replacement string `json:"replacement" yaml:"replacement"`
}

// Translations is an ordered list of rules, each rule sees the output of the
// rules before it.
type Translations []TranslationRule

// Apply folds every rule over text in order.
func (t Translations) Apply(text string) string {
	for _, rule := range t {
		if rule.Match == "" {
			continue
		}
		text = strings.ReplaceAll(text, rule.Match, rule.Replacement)
	}
	return text
}

// MarkerEntry maps a course title substring to the text the description ends at.
type MarkerEntry struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Marker  string `json:"marker" yaml:"marker"`
}

// MarkerTable is scanned in order, it must contain exactly one Wildcard entry.
type MarkerTable []MarkerEntry

func (m MarkerTable) Validate() error {
	wildcards := 0
	for _, entry := range m {
		if entry.Pattern == Wildcard {
			wildcards++
		}
		if entry.Marker == "" {
			return ConfigurationError{Message: fmt.Sprintf("marker for pattern %q is empty", entry.Pattern)}
		}
	}
	switch wildcards {
	case 0:
		return ConfigurationError{Message: "marker table has no wildcard entry"}
	case 1:
		return nil
	default:
		return ConfigurationError{Message: fmt.Sprintf("marker table has %d wildcard entries", wildcards)}
	}
}

// Select returns the marker of the first non wildcard entry whose pattern is
// contained in title, falling back to the wildcard entry.
func (m MarkerTable) Select(title string) (string, error) {
	for _, entry := range m {
		if entry.Pattern == Wildcard {
			continue
		}
		if strings.Contains(title, entry.Pattern) {
			return entry.Marker, nil
		}
	}
	for _, entry := range m {
		if entry.Pattern == Wildcard {
			return entry.Marker, nil
		}
	}
	return "", ConfigurationError{Message: "marker table has no wildcard entry"}
}

// SlugStyle describes how a degree name is turned into a site slug.
type SlugStyle struct {
	PreserveCase bool   `json:"preserve_case" yaml:"preserve_case"`
	Separator    string `json:"separator" yaml:"separator"`
}

// SlugRules maps a degree code to its slug style, codes that are not listed
// are lowercased with spaces removed.
type SlugRules map[string]SlugStyle

func (r SlugRules) Style(code string) SlugStyle {
	style, ok := r[code]
	if !ok {
		return SlugStyle{}
	}
	return style
}

// Selectors are the css selectors the pages of the catalog are read with.
type Selectors struct {
	// YearLink is the link to the structure page on the year probe page.
	YearLink string `json:"year_link" yaml:"year_link"`
	// CourseTitle is a cell of the course table on the structure page.
	CourseTitle string `json:"course_title" yaml:"course_title"`
	// EnglishLanguage is the language selector entry of the english variant.
	EnglishLanguage string `json:"english_language" yaml:"english_language"`
	Title           string `json:"title" yaml:"title"`
	Description     string `json:"description" yaml:"description"`
}

// Tables holds every lookup table the pipeline depends on, it is built once
// and never mutated afterwards.
type Tables struct {
	Markers      MarkerTable  `json:"markers" yaml:"markers"`
	Translations Translations `json:"translations" yaml:"translations"`
	SlugRules    SlugRules    `json:"slug_rules" yaml:"slug_rules"`
	Selectors    Selectors    `json:"selectors" yaml:"selectors"`
}

func DefaultTables() Tables {
	return Tables{
		Markers: MarkerTable{
			{Pattern: "Numerical Computing", Marker: "Teaching"},
			{Pattern: "History of Informatics", Marker: "Office"},
			{Pattern: Wildcard, Marker: "Readings"},
		},
		Translations: Translations{
			{Match: "BASI DI DATI", Replacement: "DATABASES"},
			{Match: "INTRODUZIONE ALL'APPRENDIMENTO AUTOMATICO", Replacement: "Introduction to machine learning"},
			{Match: "FONDAMENTI DI", Replacement: ""},
			{Match: "Learning outcomes", Replacement: "=== Learning outcomes"},
			{Match: "Teaching contents", Replacement: "=== Teaching contents"},
		},
		SlugRules: SlugRules{
			// the computer science engineering slug is PascalCase
			"9254/000": {PreserveCase: true},
			// the artificial intelligence slug is kebab-case
			"9063/000": {Separator: "-"},
		},
		Selectors: Selectors{
			YearLink:        ".no-bullet > li:first-child > a",
			CourseTitle:     "td.title",
			EnglishLanguage: "li.language-en",
			Title:           "div#u-content-intro>h1",
			Description:     "div.description-text",
		},
	}
}

// Override returns a copy of t where every non empty table in other replaces
// the corresponding one, selectors are replaced one by one.
func (t Tables) Override(other Tables) Tables {
	out := t
	if len(other.Markers) > 0 {
		out.Markers = append(MarkerTable(nil), other.Markers...)
	}
	if len(other.Translations) > 0 {
		out.Translations = append(Translations(nil), other.Translations...)
	}
	if len(other.SlugRules) > 0 {
		out.SlugRules = SlugRules{}
		for code, style := range t.SlugRules {
			out.SlugRules[code] = style
		}
		for code, style := range other.SlugRules {
			out.SlugRules[code] = style
		}
	}

	overrideStr := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	overrideStr(&out.Selectors.YearLink, other.Selectors.YearLink)
	overrideStr(&out.Selectors.CourseTitle, other.Selectors.CourseTitle)
	overrideStr(&out.Selectors.EnglishLanguage, other.Selectors.EnglishLanguage)
	overrideStr(&out.Selectors.Title, other.Selectors.Title)
	overrideStr(&out.Selectors.Description, other.Selectors.Description)

	return out
}

// Validate reports a ConfigurationError for unusable tables.
func (t Tables) Validate() error {
	err := t.Markers.Validate()
	if err != nil {
		return err
	}
	selectors := [][2]string{
		{"year_link", t.Selectors.YearLink},
		{"course_title", t.Selectors.CourseTitle},
		{"english_language", t.Selectors.EnglishLanguage},
		{"title", t.Selectors.Title},
		{"description", t.Selectors.Description},
	}
	for _, s := range selectors {
		if strings.TrimSpace(s[1]) == "" {
			return ConfigurationError{Message: fmt.Sprintf("selector %s is empty", s[0])}
		}
	}
	return nil
}
