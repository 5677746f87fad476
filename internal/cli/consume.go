package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/cinema-marathon-planner/internal/config"
	"github.com/iliyamo/cinema-marathon-planner/internal/queue"
)

func init() {
	cmd := &cobra.Command{
		Use:   "consume",
		Short: "Run the schedule.saved consumer until interrupted",
		Run:   runConsume,
	}
	cmd.Flags().String("log-path", "", "File receiving one line per saved schedule (default: $QUEUE_CONSUMER_LOG)")
	RootCmd.AddCommand(cmd)
}

func runConsume(cmd *cobra.Command, args []string) {
	cfg := config.LoadQueueConfig()
	if p, _ := cmd.Flags().GetString("log-path"); p != "" {
		cfg.ConsumerLogPath = p
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := queue.StartScheduleConsumer(ctx, cfg, newLogger()); err != nil && !errors.Is(err, context.Canceled) {
		exitErr("consume", err)
	}
}
