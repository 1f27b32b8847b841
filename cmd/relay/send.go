package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"portfolio-relay/internal/config"
	"portfolio-relay/internal/mailer"
	"portfolio-relay/internal/model"
	"portfolio-relay/internal/service/contact"
	"portfolio-relay/pkg/logger"
	"portfolio-relay/pkg/trace"
)

type sendOptions struct {
	name    string
	email   string
	subject string
	message string
}

// newSendCmd relays one submission through the configured transport,
// bypassing HTTP. Useful for checking mail credentials on a new host.
func newSendCmd(root *rootOptions) *cobra.Command {
	opts := &sendOptions{}

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Relay a single contact submission and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.env, root.configDir)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			log := logger.NewLogger(cfg.Log.Level, cfg.Log.Development)
			defer log.Sync()

			m, err := mailer.New(cmd.Context(), cfg.Mail, log)
			if err != nil {
				return fmt.Errorf("failed to init mail transport: %w", err)
			}

			traceID := trace.GenerateTraceID()
			ctx := trace.WithContext(cmd.Context(), traceID)

			relay := contact.NewService(relaySettings(cfg), m, nil, log)
			err = relay.Submit(ctx, model.ContactSubmission{
				Name:    opts.name,
				Email:   opts.email,
				Subject: opts.subject,
				Message: opts.message,
			})

			var verr *contact.ValidationError
			switch {
			case errors.As(err, &verr):
				return errors.New(verr.Message)
			case err != nil:
				log.Error("Send failed", zap.String("trace_id", traceID), zap.Error(err))
				return fmt.Errorf("error sending email: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Email sent successfully! (transport=%s trace_id=%s)\n", m.Name(), traceID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "sender name")
	cmd.Flags().StringVar(&opts.email, "email", "", "sender email, used as Reply-To")
	cmd.Flags().StringVar(&opts.subject, "subject", "", "message subject")
	cmd.Flags().StringVar(&opts.message, "message", "", "message body")
	return cmd
}
