package secrets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/de-tools/cost-pulse/pkg/models/domain"
)

// Resolver fetches one decrypted secret by name. No retries; values must
// never be logged by callers.
type Resolver interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// SSMAPI is the slice of the SSM client used by the resolver.
type SSMAPI interface {
	GetParameter(
		ctx context.Context,
		params *ssm.GetParameterInput,
		optFns ...func(*ssm.Options),
	) (*ssm.GetParameterOutput, error)
}

type resolver struct {
	client  SSMAPI
	timeout time.Duration
}

func NewResolver(client SSMAPI, timeout time.Duration) Resolver {
	return &resolver{client: client, timeout: timeout}
}

func (r *resolver) GetSecret(ctx context.Context, name string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	out, err := r.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", domain.WrapErr(domain.KindSecretNotFound, "secrets.GetSecret", err)
		}
		return "", domain.WrapErr(domain.KindSecretBackend, "secrets.GetSecret", err)
	}

	if out.Parameter == nil || out.Parameter.Value == nil || *out.Parameter.Value == "" {
		return "", domain.WrapErr(domain.KindSecretNotFound, "secrets.GetSecret",
			fmt.Errorf("parameter %s has no decrypted value", name))
	}
	return *out.Parameter.Value, nil
}
