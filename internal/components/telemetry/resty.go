package telemetry

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	report_http_request  = "http.request"
	report_http_response = "http.response"
	report_http_status   = "http.status"
	report_http_failure  = "http.failure"
)

type requestKeyType int

var requestKey requestKeyType

type request struct {
	id      uint64
	started time.Time
}

// InstrumentResty numbers every request made by client and reports it.
// Unsuccessful statuses are warnings, transport failures are broken unless
// the request was cancelled.
func InstrumentResty(client *resty.Client, tel API) {
	var counter atomic.Uint64

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		r := request{id: counter.Add(1), started: time.Now()}
		req.SetContext(context.WithValue(req.Context(), requestKey, r))
		tel.ReportDebug(report_http_request, r.id, req.Method, req.URL)
		return nil
	})

	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		r, _ := res.Request.Context().Value(requestKey).(request)
		tel.ReportDebug(report_http_response, r.id, res.StatusCode(), time.Since(r.started).Round(time.Millisecond).String())
		if res.IsError() {
			tel.ReportWarning(report_http_status, res.Request.URL, res.StatusCode())
		}
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			tel.ReportDebug(report_http_failure, req.URL, err)
			return
		}
		tel.ReportBroken(report_http_failure, err, req.Method, req.URL)
	})
}
