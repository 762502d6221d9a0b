package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/de-tools/cost-pulse/pkg/models/domain"
)

// Notifier delivers one message to the configured destination. Delivery is a
// single best-effort attempt; there is no retry or queueing.
type Notifier interface {
	Send(ctx context.Context, msg domain.Message) error
}

type Slack struct {
	webhookURL string
	httpClient *http.Client
}

func NewSlack(webhookURL string, timeout time.Duration) *Slack {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Slack{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *Slack) Send(ctx context.Context, msg domain.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return domain.WrapErr(domain.KindDelivery, "notify.Send", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return domain.WrapErr(domain.KindDelivery, "notify.Send", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return domain.WrapErr(domain.KindDelivery, "notify.Send", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.WrapErr(domain.KindDelivery, "notify.Send",
			fmt.Errorf("webhook returned status %d", resp.StatusCode))
	}
	return nil
}
