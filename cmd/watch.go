package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/EO-DataHub/eodhp-record-services/internal/events"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print record events from the Pulsar record topic as they arrive",
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config and set up logging
		commonSetUp()

		topic := appCfg.Pulsar.TopicConsumer
		if topic == "" {
			topic = appCfg.Pulsar.TopicProducer
		}

		// Initialize event consumer
		consumer, err := events.NewEventConsumer(appCfg.Pulsar.URL, topic, appCfg.Pulsar.Subscription)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize event consumer")
		}
		defer consumer.Close()

		ctx, stop := signal.NotifyContext(commandContext(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		for {
			event, err := consumer.ReceiveEvent(ctx)
			if errors.Is(err, events.ErrMalformedEvent) {
				log.Error().Err(err).Msg("Discarding malformed record event")
				continue
			}
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Error().Err(err).Msg("Error receiving message")
				continue
			}

			at := time.UnixMilli(event.Timestamp).UTC().Format(time.RFC3339)
			fmt.Fprintf(out, "%s %-8s %s\n", at, event.Action, strings.Join(event.RecordIDs, ","))
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
