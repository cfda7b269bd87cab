// Package telemetry publishes service metrics to AWS CloudWatch.
package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"fangindex/internal/config"
	"fangindex/internal/types"
)

const (
	// putTimeout bounds a PutMetricData call. Calls run detached from the
	// request's cancellation so a finished request still publishes.
	putTimeout = 2 * time.Second

	// maxDatumsPerPut is the CloudWatch limit on datums per PutMetricData.
	maxDatumsPerPut = 1000
)

// CloudWatchClient abstracts the CloudWatch PutMetricData operation for testability.
type CloudWatchClient interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Recorder is the full set of metrics the binaries emit. It is satisfied by
// *CloudWatchMetrics and Noop.
type Recorder interface {
	RecordRequest(ctx context.Context, method, endpoint, status string, duration time.Duration)
	RecordSpotsRanked(ctx context.Context, count int)
	RecordCandidatesSkipped(ctx context.Context, count int)
	RecordRadiusFallback(ctx context.Context)
	RecordLocationFallback(ctx context.Context, source types.LocationSource)
	RecordFangindexScore(ctx context.Context, endpoint string, score int)
	RecordProviderFailure(ctx context.Context, provider string)
}

var (
	_ Recorder = (*CloudWatchMetrics)(nil)
	_ Recorder = Noop{}
)

// CloudWatchMetrics publishes metrics to CloudWatch. Inside a context from
// StartBatch datums are buffered and FlushBatch sends them together;
// elsewhere each Record call publishes immediately. Publishing failures are
// logged and never returned: metrics must not fail a request.
type CloudWatchMetrics struct {
	client    CloudWatchClient
	namespace string
	logger    types.Logger
}

// NewCloudWatchMetrics creates a publisher for namespace. An empty namespace
// uses types.MetricNamespace.
func NewCloudWatchMetrics(client CloudWatchClient, namespace string, logger types.Logger) *CloudWatchMetrics {
	if namespace == "" {
		namespace = types.MetricNamespace
	}
	return &CloudWatchMetrics{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// New returns a CloudWatch publisher when metrics are enabled, and Noop
// otherwise. AWS credentials come from the default chain.
func New(ctx context.Context, cfg *config.Config, logger types.Logger) (Recorder, error) {
	if !cfg.Observability.EnableMetrics {
		return Noop{}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	var opts []func(*cloudwatch.Options)
	if cfg.AWS.EndpointURL != "" {
		endpoint := cfg.AWS.EndpointURL
		opts = append(opts, func(o *cloudwatch.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	client := cloudwatch.NewFromConfig(awsCfg, opts...)
	return NewCloudWatchMetrics(client, cfg.Observability.MetricNamespace, logger), nil
}

type batchKey struct{}

type batch struct {
	mu   sync.Mutex
	data []cwtypes.MetricDatum
}

// StartBatch returns a context that buffers every datum recorded with it
// until FlushBatch. It implements core.MetricsBatcher.
func (m *CloudWatchMetrics) StartBatch(ctx context.Context) context.Context {
	return context.WithValue(ctx, batchKey{}, &batch{})
}

// FlushBatch publishes the datums buffered in ctx, at most maxDatumsPerPut
// per call. It is a no-op for contexts without a batch.
func (m *CloudWatchMetrics) FlushBatch(ctx context.Context) {
	b, ok := ctx.Value(batchKey{}).(*batch)
	if !ok {
		return
	}
	b.mu.Lock()
	data := b.data
	b.data = nil
	b.mu.Unlock()

	for len(data) > 0 {
		n := min(len(data), maxDatumsPerPut)
		m.send(ctx, "failed to flush metrics", data[:n])
		data = data[n:]
	}
}

// RecordRequest emits APILatency (milliseconds) and APIRequestCount for one
// HTTP request. It implements core.MetricsCollector.
func (m *CloudWatchMetrics) RecordRequest(ctx context.Context, method, endpoint, status string, duration time.Duration) {
	m.put(ctx, "failed to record request metrics",
		cwtypes.MetricDatum{
			MetricName: aws.String(types.MetricAPILatency),
			Value:      aws.Float64(float64(duration.Milliseconds())),
			Unit:       cwtypes.StandardUnitMilliseconds,
			Dimensions: dims(types.DimEndpoint, endpoint, types.DimMethod, method),
		},
		cwtypes.MetricDatum{
			MetricName: aws.String(types.MetricAPIRequestCount),
			Value:      aws.Float64(1),
			Unit:       cwtypes.StandardUnitCount,
			Dimensions: dims(types.DimEndpoint, endpoint, types.DimMethod, method, types.DimStatus, status),
		},
	)
}

// RecordSpotsRanked emits the number of spots returned by a ranking.
func (m *CloudWatchMetrics) RecordSpotsRanked(ctx context.Context, count int) {
	m.put(ctx, "failed to record ranking metric", count1(types.MetricSpotsRanked, float64(count)))
}

// RecordCandidatesSkipped emits the number of malformed candidates dropped
// from a ranking. Zero counts are not sent.
func (m *CloudWatchMetrics) RecordCandidatesSkipped(ctx context.Context, count int) {
	if count == 0 {
		return
	}
	m.put(ctx, "failed to record skipped metric", count1(types.MetricCandidatesSkipped, float64(count)))
}

// RecordRadiusFallback counts rankings that fell back to the nearest spots.
func (m *CloudWatchMetrics) RecordRadiusFallback(ctx context.Context) {
	m.put(ctx, "failed to record radius fallback metric", count1(types.MetricRadiusFallback, 1))
}

// RecordLocationFallback counts requests served from the fallback coordinate.
func (m *CloudWatchMetrics) RecordLocationFallback(ctx context.Context, source types.LocationSource) {
	d := count1(types.MetricLocationFallback, 1)
	d.Dimensions = dims(types.DimSource, string(source))
	m.put(ctx, "failed to record location fallback metric", d)
}

// RecordFangindexScore emits a computed score so its distribution can be
// charted per endpoint.
func (m *CloudWatchMetrics) RecordFangindexScore(ctx context.Context, endpoint string, score int) {
	m.put(ctx, "failed to record score metric", cwtypes.MetricDatum{
		MetricName: aws.String(types.MetricFangindexScore),
		Value:      aws.Float64(float64(score)),
		Unit:       cwtypes.StandardUnitNone,
		Dimensions: dims(types.DimEndpoint, endpoint),
	})
}

// RecordProviderFailure counts failed upstream calls per provider.
func (m *CloudWatchMetrics) RecordProviderFailure(ctx context.Context, provider string) {
	d := count1(types.MetricExternalAPIFailure, 1)
	d.Dimensions = dims(types.DimProvider, provider)
	m.put(ctx, "failed to record provider failure metric", d)
}

// put buffers data in the batch carried by ctx, or publishes it at once.
func (m *CloudWatchMetrics) put(ctx context.Context, failMsg string, data ...cwtypes.MetricDatum) {
	if b, ok := ctx.Value(batchKey{}).(*batch); ok {
		b.mu.Lock()
		b.data = append(b.data, data...)
		b.mu.Unlock()
		return
	}
	m.send(ctx, failMsg, data)
}

func (m *CloudWatchMetrics) send(ctx context.Context, failMsg string, data []cwtypes.MetricDatum) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), putTimeout)
	defer cancel()

	input := &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: data,
	}
	if _, err := m.client.PutMetricData(ctx, input); err != nil && m.logger != nil {
		m.logger.Error(failMsg,
			"error", err.Error(),
			"metric", aws.ToString(data[0].MetricName),
			"datums", len(data),
		)
	}
}

func count1(name string, value float64) cwtypes.MetricDatum {
	return cwtypes.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       cwtypes.StandardUnitCount,
	}
}

// dims builds dimensions from name/value pairs.
func dims(pairs ...string) []cwtypes.Dimension {
	out := make([]cwtypes.Dimension, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, cwtypes.Dimension{
			Name:  aws.String(pairs[i]),
			Value: aws.String(pairs[i+1]),
		})
	}
	return out
}

// Noop discards all metrics. It is used when EnableMetrics is off.
type Noop struct{}

func (Noop) RecordRequest(context.Context, string, string, string, time.Duration) {}
func (Noop) RecordSpotsRanked(context.Context, int)                               {}
func (Noop) RecordCandidatesSkipped(context.Context, int)                         {}
func (Noop) RecordRadiusFallback(context.Context)                                 {}
func (Noop) RecordLocationFallback(context.Context, types.LocationSource)         {}
func (Noop) RecordFangindexScore(context.Context, string, int)                    {}
func (Noop) RecordProviderFailure(context.Context, string)                        {}
