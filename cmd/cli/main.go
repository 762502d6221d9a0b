package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/de-tools/cost-pulse/pkg/services/awscfg"
	"github.com/de-tools/cost-pulse/pkg/services/billing"
	"github.com/de-tools/cost-pulse/pkg/services/config"
	"github.com/de-tools/cost-pulse/pkg/services/metrics"
	"github.com/de-tools/cost-pulse/pkg/services/notify"
	"github.com/de-tools/cost-pulse/pkg/services/pipeline"
	"github.com/de-tools/cost-pulse/pkg/services/secrets"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	dryRun    bool
	parameter string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cost-pulse",
		Short: "Post the last 24h of estimated AWS charges to Slack",
		RunE:  run,
	}

	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"print the composed message instead of posting it")
	rootCmd.Flags().StringVar(&parameter, "parameter", "",
		"override the SSM parameter holding the webhook URL")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if parameter != "" {
		cfg.WebhookParameter = parameter
	}

	awsCfg, err := awscfg.Load(ctx, cfg.Region)
	if err != nil {
		return err
	}

	explorer := metrics.NewExplorer(cloudwatch.NewFromConfig(*awsCfg), cfg.CallTimeout)
	resolver := secrets.NewResolver(ssm.NewFromConfig(*awsCfg), cfg.CallTimeout)
	aggregator := billing.NewAggregator(explorer, cfg.WorkerLimit)

	factory := pipeline.NotifierFactory(func(webhookURL string) notify.Notifier {
		return notify.NewSlack(webhookURL, cfg.CallTimeout)
	})
	if dryRun {
		factory = func(string) notify.Notifier {
			return &notify.Printer{Out: os.Stdout}
		}
	}

	return pipeline.NewDriver(resolver, aggregator, factory, cfg.WebhookParameter).Run(ctx)
}
