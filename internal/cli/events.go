package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joyas-pwa/joyas-api/internal/queue"
)

var eventLogPath string

var consumeCmd = &cobra.Command{
	Use:   "consume-events",
	Short: "Append ledger events to a log file",
	Long: `Connects to RABBITMQ_URL, drains EVENTS_QUEUE and appends one JSON line
per sale.created or payment.recorded event.  Runs until interrupted and
reconnects when the broker goes away.`,
	RunE: runConsume,
}

func init() {
	rootCmd.AddCommand(consumeCmd)
	consumeCmd.Flags().StringVar(&eventLogPath, "log-file", "logs/ledger.log", "File the events are appended to")
}

func runConsume(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap("events")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	if cfg.RabbitURL == "" {
		return errors.New("RABBITMQ_URL is not set")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := &queue.Consumer{URL: cfg.RabbitURL, Queue: cfg.EventsQueue, LogPath: eventLogPath, Log: log}
	log.Info("consuming", zap.String("queue", cfg.EventsQueue), zap.String("file", eventLogPath))
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
