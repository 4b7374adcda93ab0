package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/job-matcher/internal/queue"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume scoring requests from RabbitMQ and publish analyses",
	Run: func(_ *cobra.Command, _ []string) {
		work()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)

	workerCmd.Flags().Int("consumers", 0, "number of concurrent consumers (overrides worker.consumers)")
	viper.BindPFlag("worker.consumers", workerCmd.Flags().Lookup("consumers"))
}

func work() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := setup()
	logger.Info("starting the job-matcher worker", zap.String("version", version))

	engine, err := newEngine(ctx, config, logger)
	if err != nil {
		logger.Fatal("creating engine", zap.Error(err))
	}

	conn, ch, err := queue.Dial(config.Worker.URL)
	if err != nil {
		logger.Fatal("connecting to rabbitmq", zap.Error(err))
	}
	defer conn.Close()
	defer ch.Close()

	worker, err := queue.NewWorker(ch, engine, config.Worker, logger)
	if err != nil {
		logger.Fatal("creating worker", zap.Error(err))
	}

	if err := worker.Run(ctx); err != nil {
		logger.Error("worker stopped", zap.Error(err))
		return
	}
	logger.Info("worker stopped")
}
