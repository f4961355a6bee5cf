// Package document renders the extracted course descriptions as asciidoc.
package document

import (
	"fmt"
	"sort"
	"strings"

	"coursedesc/internal/catalog"
)

const IndexFilename = "index.adoc"

const indexHeader = `= Unified Course Descriptions for Some UNIBO Degrees

https://cartabinaria.students.cs.unibo.it/en/wiki/web-scraper/course-description-merged/[Documentation]

`

// Document is a rendered asciidoc file.
type Document struct {
	Filename   string
	DegreeName string
	DegreeSlug string
	// Year is 0 for the index.
	Year    int
	Content string
}

// Basename is the name of the documents of a degree for a year, without extension.
func Basename(degreeSlug string, year int) string {
	return fmt.Sprintf("degree-%s-%d", degreeSlug, year)
}

func renderCourse(desc catalog.TeachingDescription, degreeSlug string, year int) string {
	base := Basename(degreeSlug, year)

	var out strings.Builder
	out.WriteString("\n\n")
	fmt.Fprintf(&out, "== %s[%s]\n\n", desc.Url, desc.Title)
	fmt.Fprintf(&out, "link:%s[web], link:%s.pdf[PDF], xref:%s.adoc[ADOC].\n\n", desc.Url, base, base)
	out.WriteString(strings.TrimSpace(desc.Body()))
	return out.String()
}

// RenderYear renders the document of a degree for one year, courses are kept
// in the given order.
func RenderYear(degree catalog.ResolvedDegree, year int, courses []catalog.TeachingDescription) Document {
	var out strings.Builder
	fmt.Fprintf(&out, "= %s (%d)\n\n", degree.Name, year)
	for _, course := range courses {
		out.WriteString(renderCourse(course, degree.Slug, year))
	}

	return Document{
		Filename:   Basename(degree.Slug, year) + ".adoc",
		DegreeName: degree.Name,
		DegreeSlug: degree.Slug,
		Year:       year,
		Content:    out.String(),
	}
}

// Assemble renders one document per year of the degree, in ascending year order.
// A year mapped to no course still gets a document with only its heading.
func Assemble(degree catalog.ResolvedDegree, years map[int][]catalog.TeachingDescription) []Document {
	keys := make([]int, 0, len(years))
	for year := range years {
		keys = append(keys, year)
	}
	sort.Ints(keys)

	docs := make([]Document, 0, len(keys))
	for _, year := range keys {
		docs = append(docs, RenderYear(degree, year, years[year]))
	}
	return docs
}

// Index renders the index of every degree, degrees keep the given order.
// Each element of degrees holds the documents of one degree.
func Index(degrees [][]Document) Document {
	entries := make([]string, 0, len(degrees))
	for _, docs := range degrees {
		var entry strings.Builder
		for _, doc := range docs {
			base := Basename(doc.DegreeSlug, doc.Year)
			fmt.Fprintf(
				&entry,
				"\n\n== %s (%d)\n\nxref:%s.adoc[web] | link:%s.pdf[PDF] | link:%s.adoc[Asciidoc]\n\n",
				doc.DegreeName, doc.Year,
				base, base, base,
			)
		}
		entries = append(entries, entry.String())
	}

	return Document{
		Filename: IndexFilename,
		Content:  indexHeader + strings.Join(entries, "\n"),
	}
}
