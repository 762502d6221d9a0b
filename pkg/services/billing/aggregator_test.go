package billing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/de-tools/cost-pulse/pkg/models/domain"
	"github.com/de-tools/cost-pulse/pkg/services/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2020, 5, 10, 12, 0, 0, 0, time.UTC)

// stubExplorer answers queries from a cost table and records everything it
// was asked, safely across the fan-out goroutines.
type stubExplorer struct {
	mu          sync.Mutex
	statQueries []metrics.Query
	listCalls   int

	total      float64
	totalErr   error
	names      []string
	listErr    error
	costs      map[string]float64
	serviceErr map[string]error
}

func (s *stubExplorer) GetScalarStatistic(_ context.Context, q metrics.Query) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statQueries = append(s.statQueries, q)

	if len(q.Dimensions) == 1 {
		return s.total, s.totalErr
	}
	name := q.Dimensions[1].Value
	if err := s.serviceErr[name]; err != nil {
		return 0, err
	}
	return s.costs[name], nil
}

func (s *stubExplorer) ListDimensionValues(_ context.Context, _, _ string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	return s.names, s.listErr
}

func newAggregatorWithClock(e metrics.Explorer, workers int) *Aggregator {
	a := NewAggregator(e, workers)
	a.now = func() time.Time { return fixedNow }
	return a
}

func TestCompute_TotalAndBreakdown(t *testing.T) {
	stub := &stubExplorer{
		total: 12.34,
		names: []string{"AmazonEC2", "AWSLambda"},
		costs: map[string]float64{"AmazonEC2": 5.00, "AWSLambda": 7.34},
	}
	a := newAggregatorWithClock(stub, 2)

	bill, err := a.Compute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &domain.Billing{
		Total: 12.34,
		Services: []domain.ServiceBilling{
			{Name: "AmazonEC2", Cost: 5.00},
			{Name: "AWSLambda", Cost: 7.34},
		},
	}, bill)

	// One total query, one list call, one query per listed service.
	assert.Equal(t, 1, stub.listCalls)
	require.Len(t, stub.statQueries, 3)
	for _, q := range stub.statQueries {
		assert.Equal(t, "AWS/Billing", q.Namespace)
		assert.Equal(t, "EstimatedCharges", q.MetricName)
		assert.Equal(t, metrics.StatisticMaximum, q.Statistic)
		assert.Equal(t, metrics.Dimension{Name: "Currency", Value: "USD"}, q.Dimensions[0])
		assert.Equal(t, fixedNow.Add(-24*time.Hour), q.Window.Start)
		assert.Equal(t, fixedNow, q.Window.End)
		assert.Equal(t, int32(86400), q.Window.Period)
	}
}

func TestCompute_OutputOrderMatchesListing(t *testing.T) {
	names := []string{"AmazonEC2", "AWSLambda", "AmazonS3", "AmazonRDS", "AmazonSNS"}
	costs := map[string]float64{
		"AmazonEC2": 1, "AWSLambda": 2, "AmazonS3": 3, "AmazonRDS": 4, "AmazonSNS": 5,
	}
	stub := &stubExplorer{total: 15, names: names, costs: costs}
	a := newAggregatorWithClock(stub, 4)

	bill, err := a.Compute(context.Background())

	require.NoError(t, err)
	require.Len(t, bill.Services, len(names))
	for i, name := range names {
		assert.Equal(t, name, bill.Services[i].Name)
		assert.Equal(t, costs[name], bill.Services[i].Cost)
	}
}

func TestCompute_NoBilledServices(t *testing.T) {
	stub := &stubExplorer{total: 3.21}
	a := newAggregatorWithClock(stub, 2)

	bill, err := a.Compute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3.21, bill.Total)
	assert.Empty(t, bill.Services)
	assert.Len(t, stub.statQueries, 1)
}

func TestCompute_TotalQueryFailureAbortsEverything(t *testing.T) {
	stub := &stubExplorer{
		totalErr: domain.WrapErr(domain.KindMetricsBackend, "metrics.GetScalarStatistic", errors.New("boom")),
		names:    []string{"AmazonEC2"},
	}
	a := newAggregatorWithClock(stub, 2)

	bill, err := a.Compute(context.Background())

	require.Error(t, err)
	assert.Nil(t, bill)
	assert.Equal(t, domain.KindMetricsBackend, domain.KindOf(err))
	assert.Equal(t, 0, stub.listCalls)
}

func TestCompute_ListFailureAbortsEverything(t *testing.T) {
	stub := &stubExplorer{
		total:   5,
		listErr: domain.WrapErr(domain.KindMetricsBackend, "metrics.ListDimensionValues", errors.New("boom")),
	}
	a := newAggregatorWithClock(stub, 2)

	bill, err := a.Compute(context.Background())

	require.Error(t, err)
	assert.Nil(t, bill)
	assert.Len(t, stub.statQueries, 1, "no per-service queries after a failed listing")
}

func TestCompute_ServiceQueryFailureYieldsNoPartialResult(t *testing.T) {
	stub := &stubExplorer{
		total: 12.34,
		names: []string{"AmazonEC2", "AWSLambda"},
		costs: map[string]float64{"AmazonEC2": 5.00},
		serviceErr: map[string]error{
			"AWSLambda": domain.WrapErr(domain.KindMetricsBackend, "metrics.GetScalarStatistic", errors.New("boom")),
		},
	}
	a := newAggregatorWithClock(stub, 1)

	bill, err := a.Compute(context.Background())

	require.Error(t, err)
	assert.Nil(t, bill)
	assert.Equal(t, domain.KindMetricsBackend, domain.KindOf(err))
}

func TestCompute_ServiceQueryCarriesServiceDimension(t *testing.T) {
	stub := &stubExplorer{
		total: 1,
		names: []string{"AmazonEC2"},
		costs: map[string]float64{"AmazonEC2": 1},
	}
	a := newAggregatorWithClock(stub, 1)

	_, err := a.Compute(context.Background())

	require.NoError(t, err)
	require.Len(t, stub.statQueries, 2)
	svcQuery := stub.statQueries[1]
	require.Len(t, svcQuery.Dimensions, 2)
	assert.Equal(t, metrics.Dimension{Name: "ServiceName", Value: "AmazonEC2"}, svcQuery.Dimensions[1])
}
