package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/erp/posting/internal/application/posting"
	"go.opentelemetry.io/otel/metric"
)

// PostingMeterName is the instrumentation scope of the posting instruments.
const PostingMeterName = "github.com/erp/posting/posting"

var (
	// a whole unit of work including retries, in seconds
	postingDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}
	lineCountBuckets       = []float64{1, 2, 5, 10, 25, 50, 100, 250}
)

// PostingMetrics records coordinator outcomes as OpenTelemetry instruments.
type PostingMetrics struct {
	posted   metric.Int64Counter
	aborted  metric.Int64Counter
	retried  metric.Int64Counter
	alerts   metric.Int64Counter
	duration metric.Float64Histogram
	lines    metric.Float64Histogram
}

var _ posting.Metrics = (*PostingMetrics)(nil)

func NewPostingMetrics(meter metric.Meter) (*PostingMetrics, error) {
	var (
		m    PostingMetrics
		errs [6]error
	)
	m.posted, errs[0] = meter.Int64Counter("posting.documents.posted",
		metric.WithDescription("Documents committed"), metric.WithUnit("{document}"))
	m.aborted, errs[1] = meter.Int64Counter("posting.documents.aborted",
		metric.WithDescription("Units of work rolled back"), metric.WithUnit("{document}"))
	m.retried, errs[2] = meter.Int64Counter("posting.attempts.retried",
		metric.WithDescription("Attempts retried after a conflict"), metric.WithUnit("{attempt}"))
	m.alerts, errs[3] = meter.Int64Counter("posting.low_stock.alerts",
		metric.WithDescription("Low stock alerts raised"), metric.WithUnit("{alert}"))
	m.duration, errs[4] = meter.Float64Histogram("posting.duration",
		metric.WithDescription("Wall time of a committed unit of work including retries"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(postingDurationBuckets...))
	m.lines, errs[5] = meter.Float64Histogram("posting.document.lines",
		metric.WithDescription("Lines per committed document"),
		metric.WithUnit("{line}"),
		metric.WithExplicitBucketBoundaries(lineCountBuckets...))

	if err := errors.Join(errs[:]...); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *PostingMetrics) DocumentPosted(ctx context.Context, kind string, lines int, elapsed time.Duration) {
	attrs := metric.WithAttributes(AttrDocumentKind.String(kind))
	m.posted.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
	m.lines.Record(ctx, float64(lines), attrs)
}

func (m *PostingMetrics) DocumentAborted(ctx context.Context, kind, code string) {
	m.aborted.Add(ctx, 1, metric.WithAttributes(AttrDocumentKind.String(kind), AttrErrorCode.String(code)))
}

func (m *PostingMetrics) AttemptRetried(ctx context.Context, kind string) {
	m.retried.Add(ctx, 1, metric.WithAttributes(AttrDocumentKind.String(kind)))
}

func (m *PostingMetrics) LowStockAlert(ctx context.Context, severity string) {
	m.alerts.Add(ctx, 1, metric.WithAttributes(AttrSeverity.String(severity)))
}
