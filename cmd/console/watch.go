package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"scitech-bot/internal/config"
	"scitech-bot/pkg/events"
	pktNats "scitech-bot/pkg/nats"

	"github.com/spf13/cobra"
)

func newWatchCmd(load func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow chat turns published to NATS",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := load()
			if cfg.Events.NatsURL == "" {
				return errors.New("NATS_URL is not configured")
			}

			sub, err := pktNats.NewSubscriber(cfg.Events.NatsURL)
			if err != nil {
				return err
			}
			defer sub.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			err = sub.Subscribe(ctx, cfg.Events.Topic+".>", "", func(_ context.Context, ev events.Event) error {
				fmt.Fprintln(out, formatEvent(ev))
				return nil
			})
			if err != nil {
				return err
			}

			<-ctx.Done()
			return nil
		},
	}
}

func formatEvent(ev events.Event) string {
	stamp := ev.Timestamp().Format("15:04:05")
	session := events.Field(ev, "session_id")

	switch ev.EventType() {
	case events.TypeMessageRejected:
		return errorColor.Sprintf("%s %s rechazado (%s): %s", stamp, session, events.Field(ev, "rechazo"), events.Field(ev, "mensaje"))
	case events.TypeSessionReset:
		return systemColor.Sprintf("%s %s sesión reiniciada", stamp, session)
	default:
		line := fmt.Sprintf("%s %s [%s] %s -> %s", stamp, session, events.Field(ev, "regla"), events.Field(ev, "mensaje"), events.Field(ev, "respuesta"))
		return botColor.Sprint(line)
	}
}
