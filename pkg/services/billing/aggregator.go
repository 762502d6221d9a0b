package billing

import (
	"context"
	"time"

	"github.com/de-tools/cost-pulse/pkg/models/domain"
	"github.com/de-tools/cost-pulse/pkg/services/metrics"
	"golang.org/x/sync/errgroup"
)

const (
	billingNamespace = "AWS/Billing"
	chargesMetric    = "EstimatedCharges"
	currencyDim      = "Currency"
	currencyUSD      = "USD"
	serviceDim       = "ServiceName"
)

// Aggregator computes the account-wide estimate plus a per-service breakdown
// for the rolling 24 hours ending now. All-or-nothing: the first failing
// query cancels the rest and no partial Billing is returned.
type Aggregator struct {
	explorer    metrics.Explorer
	workerLimit int
	now         func() time.Time
}

func NewAggregator(explorer metrics.Explorer, workerLimit int) *Aggregator {
	if workerLimit < 1 {
		workerLimit = 1
	}
	return &Aggregator{
		explorer:    explorer,
		workerLimit: workerLimit,
		now:         time.Now,
	}
}

func (a *Aggregator) Compute(ctx context.Context) (*domain.Billing, error) {
	window := domain.NewDayWindow(a.now())

	total, err := a.explorer.GetScalarStatistic(ctx, totalQuery(window))
	if err != nil {
		return nil, err
	}

	names, err := a.explorer.ListDimensionValues(ctx, billingNamespace, serviceDim)
	if err != nil {
		return nil, err
	}

	// Fan out per-service queries, bounded to respect backend rate limits.
	// Results land at their request index so the output order matches the
	// order the backend listed the services in.
	services := make([]domain.ServiceBilling, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workerLimit)
	for i, name := range names {
		g.Go(func() error {
			cost, err := a.explorer.GetScalarStatistic(gctx, serviceQuery(window, name))
			if err != nil {
				return err
			}
			services[i] = domain.ServiceBilling{Name: name, Cost: cost}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.Billing{Total: total, Services: services}, nil
}

func totalQuery(window domain.TimeWindow) metrics.Query {
	return metrics.Query{
		Namespace:  billingNamespace,
		MetricName: chargesMetric,
		Dimensions: []metrics.Dimension{
			{Name: currencyDim, Value: currencyUSD},
		},
		Statistic: metrics.StatisticMaximum,
		Window:    window,
	}
}

func serviceQuery(window domain.TimeWindow, service string) metrics.Query {
	return metrics.Query{
		Namespace:  billingNamespace,
		MetricName: chargesMetric,
		Dimensions: []metrics.Dimension{
			{Name: currencyDim, Value: currencyUSD},
			{Name: serviceDim, Value: service},
		},
		Statistic: metrics.StatisticMaximum,
		Window:    window,
	}
}
