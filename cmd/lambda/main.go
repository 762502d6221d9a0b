package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/de-tools/cost-pulse/pkg/models/domain"
	"github.com/de-tools/cost-pulse/pkg/services/awscfg"
	"github.com/de-tools/cost-pulse/pkg/services/billing"
	"github.com/de-tools/cost-pulse/pkg/services/config"
	"github.com/de-tools/cost-pulse/pkg/services/metrics"
	"github.com/de-tools/cost-pulse/pkg/services/notify"
	"github.com/de-tools/cost-pulse/pkg/services/pipeline"
	"github.com/de-tools/cost-pulse/pkg/services/secrets"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	driver, err := buildDriver(logger.WithContext(context.Background()))
	if err != nil {
		logger.Error().Err(err).Str("kind", domain.KindOf(err).String()).Msg("startup failed")
		os.Exit(1)
	}

	// The scheduled event carries nothing we need; success returns nothing.
	lambda.Start(func(ctx context.Context) error {
		ctx = logger.WithContext(ctx)
		if err := driver.Run(ctx); err != nil {
			logger.Error().Err(err).Str("kind", domain.KindOf(err).String()).Msg("invocation failed")
			return err
		}
		return nil
	})
}

func buildDriver(ctx context.Context) (*pipeline.Driver, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	awsCfg, err := awscfg.Load(ctx, cfg.Region)
	if err != nil {
		return nil, domain.WrapErr(domain.KindConfiguration, "lambda.buildDriver", err)
	}

	explorer := metrics.NewExplorer(cloudwatch.NewFromConfig(*awsCfg), cfg.CallTimeout)
	resolver := secrets.NewResolver(ssm.NewFromConfig(*awsCfg), cfg.CallTimeout)
	aggregator := billing.NewAggregator(explorer, cfg.WorkerLimit)

	return pipeline.NewDriver(
		resolver,
		aggregator,
		func(webhookURL string) notify.Notifier {
			return notify.NewSlack(webhookURL, cfg.CallTimeout)
		},
		cfg.WebhookParameter,
	), nil
}
