package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OtelAPI turns reports into metrics: broken and warning reports are
// counted by id and counts are recorded as gauges. Debug reports are dropped.
type OtelAPI struct {
	reports metric.Int64Counter
	counts  metric.Int64Gauge
}

// NewOtelAPI creates the instruments on provider, usually otel.GetMeterProvider().
func NewOtelAPI(provider metric.MeterProvider) (OtelAPI, error) {
	meter := provider.Meter("coursedesc/telemetry")

	reports, err := meter.Int64Counter(
		"coursedesc.reports",
		metric.WithDescription("Broken and warning reports by id."),
	)
	if err != nil {
		return OtelAPI{}, err
	}
	counts, err := meter.Int64Gauge(
		"coursedesc.count",
		metric.WithDescription("Counts reported by components, by id."),
	)
	if err != nil {
		return OtelAPI{}, err
	}

	return OtelAPI{reports: reports, counts: counts}, nil
}

func (o OtelAPI) report(kind, id string) {
	o.reports.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("id", id),
	))
}

func (o OtelAPI) ReportBroken(id string, params ...any) {
	o.report("broken", id)
}

func (o OtelAPI) ReportWarning(id string, params ...any) {
	o.report("warning", id)
}

func (o OtelAPI) ReportDebug(msg string, params ...any) {}

func (o OtelAPI) ReportCount(id string, count int64) {
	o.counts.Record(context.Background(), count, metric.WithAttributes(
		attribute.String("id", id),
	))
}
