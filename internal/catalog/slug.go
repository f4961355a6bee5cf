package catalog

import (
	"regexp"
	"strings"

	"coursedesc/internal/seed"
	"coursedesc/lib/textutil"
)

var slugConnectors = regexp.MustCompile(`( (e|per il|in) )|Magistrale|Master`)

// LevelOf infers the degree level from its name.
func LevelOf(name string) Level {
	if strings.Contains(name, "Magistrale") || strings.Contains(name, "Master") {
		return Master
	}
	return Bachelor
}

// SiteSlug infers the slug the catalog uses for a degree from its name,
// irregular degrees are handled by rules.
func SiteSlug(name, code string, rules SlugRules) string {
	style := rules.Style(code)

	slug := slugConnectors.ReplaceAllString(name, "")
	if !style.PreserveCase {
		slug = textutil.Lower(slug)
	}
	return strings.ReplaceAll(slug, " ", style.Separator)
}

// ResolveSlug validates a seed record and returns its level and site slug.
func ResolveSlug(record seed.Record, rules SlugRules) (Level, string, error) {
	err := record.Validate()
	if err != nil {
		return "", "", err
	}
	return LevelOf(record.Name), SiteSlug(record.Name, record.Code, rules), nil
}
