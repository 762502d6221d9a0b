package pipeline

import (
	"context"

	"github.com/de-tools/cost-pulse/pkg/models/domain"
	"github.com/de-tools/cost-pulse/pkg/services/notify"
	"github.com/de-tools/cost-pulse/pkg/services/secrets"
	"github.com/rs/zerolog"
)

// BillingComputer is the aggregation capability the driver depends on.
type BillingComputer interface {
	Compute(ctx context.Context) (*domain.Billing, error)
}

// NotifierFactory builds the notifier once the destination is known. The URL
// is a secret and must not be logged.
type NotifierFactory func(webhookURL string) notify.Notifier

// Driver sequences one invocation: resolve webhook -> compute billing ->
// compose and deliver. Any failing step ends the invocation; nothing is
// retried and no partial notification goes out.
type Driver struct {
	resolver    secrets.Resolver
	aggregator  BillingComputer
	newNotifier NotifierFactory
	parameter   string
}

func NewDriver(
	resolver secrets.Resolver,
	aggregator BillingComputer,
	newNotifier NotifierFactory,
	parameter string,
) *Driver {
	return &Driver{
		resolver:    resolver,
		aggregator:  aggregator,
		newNotifier: newNotifier,
		parameter:   parameter,
	}
}

func (d *Driver) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	// Secret first: a missing webhook should fail before any metrics call.
	webhookURL, err := d.resolver.GetSecret(ctx, d.parameter)
	if err != nil {
		return err
	}

	bill, err := d.aggregator.Compute(ctx)
	if err != nil {
		return err
	}

	if err := d.newNotifier(webhookURL).Send(ctx, ComposeMessage(*bill)); err != nil {
		return err
	}

	logger.Info().
		Float64("total_usd", bill.Total).
		Int("services", len(bill.Services)).
		Msg("billing notification delivered")
	return nil
}
