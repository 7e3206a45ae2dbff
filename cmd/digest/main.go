package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"aer-digest/internal/logger"
	"aer-digest/internal/server"
	"aer-digest/internal/types"
)

var (
	configPath  string
	datasetFlag string
	dateFlag    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "digest",
		Short:         "AER daily digest: fetch, summarize, and deliver regulatory reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the yaml config file")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run one digest invocation and exit",
		RunE:  runOnce,
	}
	runCmd.Flags().StringVar(&datasetFlag, "dataset", "", "dataset to process (ST1 or ST100); default runs both")
	runCmd.Flags().StringVar(&dateFlag, "date", "", "report date override (YYYY-MM-DD), bypasses resolution rules")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the invocation API over HTTP",
		RunE:  serve,
	}

	rootCmd.AddCommand(runCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runOnce(cmd *cobra.Command, _ []string) error {
	if err := initializeSystem(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer shutdownObservability()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if dateFlag != "" {
		cfg.ReportDate = dateFlag
	}

	p, cleanup, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	datasets := []string{string(types.DatasetST1), string(types.DatasetST100)}
	if datasetFlag != "" {
		datasets = []string{datasetFlag}
	}

	var failed bool
	for _, ds := range datasets {
		result, err := p.Run(ctx, types.Request{Dataset: ds})
		if err != nil {
			logger.ErrorWithErr(ctx, "Invocation failed", err, "dataset", ds)
			failed = true
			continue
		}
		b, _ := json.Marshal(result)
		fmt.Println(string(b))
	}
	if failed {
		return errors.New("one or more invocations failed")
	}
	return nil
}

func serve(cmd *cobra.Command, _ []string) error {
	if err := initializeSystem(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer shutdownObservability()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	p, cleanup, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := server.New(cfg, p)

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info(context.Background(), "Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}
