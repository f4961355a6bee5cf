// Package seed loads the list of degree programmes a run should scrape.
package seed

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"coursedesc/lib/configutil"
	"coursedesc/lib/textutil"
)

// Record is a degree programme as listed in the seed file.
type Record struct {
	// Id is the kebab-case name used to refer to the degree in generated documents.
	Id string `json:"id" yaml:"id"`
	// Name is the human readable name of the degree, it is also what the
	// site slug is inferred from.
	Name string `json:"name" yaml:"name"`
	// Code is the code the university uses for the degree, usually in the
	// format 1234/567.
	Code string `json:"code" yaml:"code"`
}

// ValidationError is returned for a record with one or more empty fields.
type ValidationError struct {
	Record Record
	Fields []string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf(
		"invalid seed record (id=%q name=%q code=%q): empty %s",
		e.Record.Id, e.Record.Name, e.Record.Code,
		strings.Join(e.Fields, ", "),
	)
}

// Validate returns a ValidationError when any field of the record is empty.
func (r Record) Validate() error {
	var empty []string
	if strings.TrimSpace(r.Id) == "" {
		empty = append(empty, "id")
	}
	if strings.TrimSpace(r.Name) == "" {
		empty = append(empty, "name")
	}
	if strings.TrimSpace(r.Code) == "" {
		empty = append(empty, "code")
	}
	if len(empty) > 0 {
		return ValidationError{Record: r, Fields: empty}
	}
	return nil
}

// Load reads a seed file, `.yaml` and `.yml` files are decoded as yaml and
// everything else as json5 (which includes plain json).
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var records []Record
	err = configutil.Unmarshal(filepath.Ext(path), data, &records)
	if err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return records, nil
}

// Partition splits records into the valid ones and the validation errors of
// the invalid ones, the relative order of valid records is kept.
func Partition(records []Record) ([]Record, []error) {
	var valid []Record
	var invalid []error
	for _, r := range records {
		err := r.Validate()
		if err != nil {
			invalid = append(invalid, err)
			continue
		}
		valid = append(valid, r)
	}
	return valid, invalid
}

// MinSimilarity is the lowest name similarity Filter accepts for a query
// that is not an exact id.
const MinSimilarity = 0.85

var ErrNoMatch = errors.New("no degree matches the query")

// Filter selects the records matching query: a record whose id equals query
// exactly, otherwise the record whose name is the most similar to query.
func Filter(records []Record, query string) ([]Record, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return records, nil
	}

	for _, r := range records {
		if r.Id == query {
			return []Record{r}, nil
		}
	}

	best := -1
	bestScore := 0.0
	for i, r := range records {
		score := textutil.Similarity(r.Name, query)
		if score > bestScore {
			best = i
			bestScore = score
		}
	}
	if best < 0 || bestScore < MinSimilarity {
		return nil, fmt.Errorf("%w: %q", ErrNoMatch, query)
	}
	return []Record{records[best]}, nil
}
