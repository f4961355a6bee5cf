package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Lower lowercases text with italian casing rules, degree names on the
// catalog are italian.
func Lower(text string) string {
	// a Caser keeps state, it cannot be shared between goroutines
	return cases.Lower(language.Italian).String(text)
}

// NormalizeName lowercases a name and removes all whitespace from it.
func NormalizeName(name string) string {
	name = Lower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// Similarity is the Jaro-Winkler similarity of two names after normalization,
// 1 means identical.
func Similarity(a, b string) float64 {
	return matchr.JaroWinkler(NormalizeName(a), NormalizeName(b), false)
}
