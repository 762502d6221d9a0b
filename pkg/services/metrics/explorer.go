package metrics

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/de-tools/cost-pulse/pkg/models/domain"
)

type Statistic string

const StatisticMaximum Statistic = "Maximum"

type Dimension struct {
	Name  string
	Value string
}

type Query struct {
	Namespace  string
	MetricName string
	Dimensions []Dimension
	Statistic  Statistic
	Window     domain.TimeWindow
}

// Explorer is the capability set the pipeline needs from the metrics backend.
type Explorer interface {
	// GetScalarStatistic resolves a query covering a single period to one
	// number. Zero datapoints, or a datapoint without the requested
	// statistic, read as 0.0 - a missing billing metric is indistinguishable
	// from a confirmed zero-cost window.
	GetScalarStatistic(ctx context.Context, q Query) (float64, error)

	// ListDimensionValues enumerates every observed value of dimensionName
	// within namespace, in the order the backend reports them. No dedup, no
	// sort; an empty result is valid.
	ListDimensionValues(ctx context.Context, namespace, dimensionName string) ([]string, error)
}

// CloudWatchAPI is the slice of the CloudWatch client used by the explorer.
type CloudWatchAPI interface {
	GetMetricStatistics(
		ctx context.Context,
		params *cloudwatch.GetMetricStatisticsInput,
		optFns ...func(*cloudwatch.Options),
	) (*cloudwatch.GetMetricStatisticsOutput, error)
	ListMetrics(
		ctx context.Context,
		params *cloudwatch.ListMetricsInput,
		optFns ...func(*cloudwatch.Options),
	) (*cloudwatch.ListMetricsOutput, error)
}

type explorer struct {
	client  CloudWatchAPI
	timeout time.Duration
}

// NewExplorer wraps a CloudWatch client. A non-positive timeout disables the
// per-call deadline and defers to whatever the runtime imposes.
func NewExplorer(client CloudWatchAPI, timeout time.Duration) Explorer {
	return &explorer{client: client, timeout: timeout}
}

func (e *explorer) GetScalarStatistic(ctx context.Context, q Query) (float64, error) {
	ctx, cancel := e.callContext(ctx)
	defer cancel()

	dims := make([]types.Dimension, 0, len(q.Dimensions))
	for _, d := range q.Dimensions {
		dims = append(dims, types.Dimension{
			Name:  aws.String(d.Name),
			Value: aws.String(d.Value),
		})
	}

	out, err := e.client.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String(q.Namespace),
		MetricName: aws.String(q.MetricName),
		Dimensions: dims,
		StartTime:  aws.Time(q.Window.Start),
		EndTime:    aws.Time(q.Window.End),
		Period:     aws.Int32(q.Window.Period),
		Statistics: []types.Statistic{types.Statistic(q.Statistic)},
	})
	if err != nil {
		return 0, domain.WrapErr(domain.KindMetricsBackend, "metrics.GetScalarStatistic", err)
	}

	if len(out.Datapoints) == 0 || out.Datapoints[0].Maximum == nil {
		return 0, nil
	}
	return *out.Datapoints[0].Maximum, nil
}

func (e *explorer) ListDimensionValues(
	ctx context.Context,
	namespace, dimensionName string,
) ([]string, error) {
	input := &cloudwatch.ListMetricsInput{
		Namespace: aws.String(namespace),
		Dimensions: []types.DimensionFilter{
			// Value left unset: matches any value of the dimension.
			{Name: aws.String(dimensionName)},
		},
	}

	var values []string
	for {
		callCtx, cancel := e.callContext(ctx)
		out, err := e.client.ListMetrics(callCtx, input)
		cancel()
		if err != nil {
			return nil, domain.WrapErr(domain.KindMetricsBackend, "metrics.ListDimensionValues", err)
		}

		for _, metric := range out.Metrics {
			for _, d := range metric.Dimensions {
				if aws.ToString(d.Name) == dimensionName {
					values = append(values, aws.ToString(d.Value))
				}
			}
		}

		if out.NextToken == nil {
			return values, nil
		}
		input.NextToken = out.NextToken
	}
}

func (e *explorer) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.timeout)
}
