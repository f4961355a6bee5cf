package catalog

import "time"

// DefaultYearsPerDegree is the number of academic years scraped per degree.
const DefaultYearsPerDegree = 3

// AcademicYear returns the calendar year the academic year containing t
// opened in, academic years open in September.
func AcademicYear(t time.Time) int {
	if t.Month() >= time.September {
		return t.Year()
	}
	return t.Year() - 1
}

// ScrapeWindow returns, in ascending order, the `count` academic years
// ending right before the year preceding current.
//
// Students enrolled in the current or previous academic year are not yet
// applying for a master degree, so those years are never scraped.
func ScrapeWindow(current, count int) []int {
	if count <= 0 {
		return nil
	}
	previous := current - 1
	first := previous - count

	years := make([]int, 0, count)
	for year := first; year < previous; year++ {
		years = append(years, year)
	}
	return years
}
