package config

import (
	"errors"
	"time"

	"github.com/de-tools/cost-pulse/pkg/models/domain"
	"github.com/spf13/viper"
)

const DefaultWebhookParameter = "/billing-notification/slack-webhook-url"

type Config struct {
	Region           string        `mapstructure:"aws_region"`
	WebhookParameter string        `mapstructure:"webhook_parameter"`
	CallTimeout      time.Duration `mapstructure:"call_timeout"`
	WorkerLimit      int           `mapstructure:"worker_limit"`
}

// Load reads the runtime configuration from the environment. Only the region
// is mandatory; everything else falls back to defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("webhook_parameter", DefaultWebhookParameter)
	v.SetDefault("call_timeout", 10*time.Second)
	v.SetDefault("worker_limit", 4)
	for _, key := range []string{"aws_region", "webhook_parameter", "call_timeout", "worker_limit"} {
		if err := v.BindEnv(key); err != nil {
			return nil, domain.WrapErr(domain.KindConfiguration, "config.Load", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, domain.WrapErr(domain.KindConfiguration, "config.Load", err)
	}
	if cfg.Region == "" {
		return nil, domain.WrapErr(domain.KindConfiguration, "config.Load",
			errors.New("AWS_REGION is not set"))
	}
	if cfg.WorkerLimit < 1 {
		cfg.WorkerLimit = 1
	}
	return &cfg, nil
}
