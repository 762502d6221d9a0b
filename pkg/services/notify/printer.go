package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/de-tools/cost-pulse/pkg/models/domain"
)

// Printer renders messages to a writer instead of delivering them. Used by
// the CLI dry-run mode.
type Printer struct {
	Out io.Writer
}

func (p *Printer) Send(_ context.Context, msg domain.Message) error {
	if _, err := fmt.Fprintln(p.Out, msg.Text); err != nil {
		return domain.WrapErr(domain.KindDelivery, "notify.Print", err)
	}
	for _, att := range msg.Attachments {
		if att.Title != "" {
			fmt.Fprintln(p.Out, att.Title)
		}
		for _, f := range att.Fields {
			fmt.Fprintf(p.Out, "  %-40s %s\n", f.Title, f.Value)
		}
	}
	return nil
}
