// Package telemetry is how components report what happened to them, without
// knowing whether reports end up in logs, metrics or a test.
package telemetry

// API receives the reports of a component.
//
// Ids name the component that reported, not the line that failed: a failed
// request while reading a structure page is `client.parse-structure`, the
// http details go into params. Ids are lowercase, dots separate a component
// from its methods and dashes separate words.
type API interface {
	// ReportBroken is for failures that need someone to look at the code or
	// the configuration.
	ReportBroken(id string, params ...any)
	// ReportWarning is for items that were skipped, like a course without a
	// detail link, the run goes on.
	ReportWarning(id string, params ...any)
	// ReportDebug is only shown when running verbosely.
	ReportDebug(msg string, params ...any)
	// ReportCount is a point in time, counts for the same id are not summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id with a namespace.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scoped(id string) string {
	return s.namespace + "." + id
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scoped(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scoped(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.namespace+": "+msg, params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scoped(id), count)
}

// Tee forwards every report to each of its APIs in order.
type Tee []API

func (t Tee) ReportBroken(id string, params ...any) {
	for _, api := range t {
		api.ReportBroken(id, params...)
	}
}

func (t Tee) ReportWarning(id string, params ...any) {
	for _, api := range t {
		api.ReportWarning(id, params...)
	}
}

func (t Tee) ReportDebug(msg string, params ...any) {
	for _, api := range t {
		api.ReportDebug(msg, params...)
	}
}

func (t Tee) ReportCount(id string, count int64) {
	for _, api := range t {
		api.ReportCount(id, count)
	}
}
