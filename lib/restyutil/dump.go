package restyutil

import (
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Dump is a completed http exchange, as written to an InstrumentOutput.
type Dump struct {
	Id     string
	Method string
	Url    string
	// FinalUrl differs from Url after redirects.
	FinalUrl        string
	Status          int
	RequestHeaders  http.Header
	ResponseHeaders http.Header
	Body            string
}

func newDump(id string, res *resty.Response) Dump {
	d := Dump{
		Id:              id,
		Method:          res.Request.Method,
		Url:             res.Request.URL,
		FinalUrl:        res.Request.URL,
		Status:          res.StatusCode(),
		ResponseHeaders: res.Header(),
		Body:            res.String(),
	}
	if res.Request.RawRequest != nil {
		d.RequestHeaders = res.Request.RawRequest.Header
	}
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		d.FinalUrl = res.RawResponse.Request.URL.String()
	}
	return d
}

var nameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Name is the id followed by the path of the url, so dumps of the same page
// sort next to each other across runs.
func (d Dump) Name() string {
	path := d.Url
	if i := strings.Index(path, "://"); i >= 0 {
		path = path[i+3:]
	}
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[i:]
	} else {
		path = ""
	}
	path = strings.Trim(nameUnsafe.ReplaceAllString(path, "-"), "-")
	if len(path) > 80 {
		path = path[:80]
	}
	if path == "" {
		return d.Id
	}
	return d.Id + "-" + path
}

func formatHeaders(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out strings.Builder
	for _, k := range keys {
		for _, v := range headers[k] {
			fmt.Fprintf(&out, "%s: %s\n", k, v)
		}
	}
	return strings.TrimSuffix(out.String(), "\n")
}

func (d Dump) String() string {
	var out strings.Builder
	fmt.Fprintf(&out, "%s %s\n", d.Method, d.Url)
	if d.FinalUrl != d.Url {
		fmt.Fprintf(&out, "-> %s\n", d.FinalUrl)
	}
	if len(d.RequestHeaders) > 0 {
		out.WriteString("\n" + formatHeaders(d.RequestHeaders) + "\n")
	}
	fmt.Fprintf(&out, "\n%d %s\n", d.Status, http.StatusText(d.Status))
	if len(d.ResponseHeaders) > 0 {
		out.WriteString(formatHeaders(d.ResponseHeaders) + "\n")
	}
	out.WriteString("\n" + d.Body)
	return out.String()
}
