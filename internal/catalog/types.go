package catalog

import (
	"strings"
)

// Level is the degree level, it doubles as the path segment of the catalog urls.
type Level string

const (
	Bachelor Level = "laurea"
	Master   Level = "magistrale"
)

func (l Level) String() string {
	return string(l)
}

// ResolvedDegree is a seed record with its catalog location and the structure
// page urls that could be discovered.
type ResolvedDegree struct {
	Name string
	// Slug is the seed id, used to name the generated documents.
	Slug     string
	Code     string
	Level    Level
	SiteSlug string
	// YearUrls maps an academic year to its structure page, years that could
	// not be discovered are absent.
	YearUrls map[int]string
}

// CourseEntry is a row of the course table of a structure page.
type CourseEntry struct {
	Name string
	// DetailLink is empty when the row has no link.
	DetailLink string
	DegreeSlug string
	Year       int
}

// TeachingDescription is the extracted english description of a course.
type TeachingDescription struct {
	Title      string
	Url        string
	Paragraphs []string
	DegreeSlug string
	Year       int
}

// Body joins the paragraphs with blank lines.
func (d TeachingDescription) Body() string {
	return strings.Join(d.Paragraphs, "\n\n")
}

// CourseOutcome is the result of processing a single course, exactly one of
// Description and Err is set.
type CourseOutcome struct {
	Entry       CourseEntry
	Description TeachingDescription
	Err         error
}

func (o CourseOutcome) Ok() bool {
	return o.Err == nil
}

func (o CourseOutcome) Reason() Reason {
	return ReasonOf(o.Err)
}

// YearOutcome is the result of processing the structure page of a year.
// A year whose structure page failed has Err set and no courses.
type YearOutcome struct {
	Year    int
	Url     string
	Courses []CourseOutcome
	Err     error
}

func (o YearOutcome) Ok() bool {
	return o.Err == nil
}

// Descriptions returns the successfully extracted courses in row order.
func (o YearOutcome) Descriptions() []TeachingDescription {
	var out []TeachingDescription
	for _, c := range o.Courses {
		if c.Ok() {
			out = append(out, c.Description)
		}
	}
	return out
}

// Skipped returns the number of courses that failed.
func (o YearOutcome) Skipped() int {
	skipped := 0
	for _, c := range o.Courses {
		if !c.Ok() {
			skipped++
		}
	}
	return skipped
}

// DegreeOutcome is the result of processing a degree, years are in ascending order.
type DegreeOutcome struct {
	Degree ResolvedDegree
	Years  []YearOutcome
}

// Processed returns the descriptions of every year whose structure page was
// read, keyed by year.
func (o DegreeOutcome) Processed() map[int][]TeachingDescription {
	out := map[int][]TeachingDescription{}
	for _, y := range o.Years {
		if !y.Ok() {
			continue
		}
		out[y.Year] = y.Descriptions()
	}
	return out
}
