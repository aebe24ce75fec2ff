package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/document"
	"github.com/spigell/resume-ranker/internal/logger"
	"github.com/spigell/resume-ranker/internal/screening"
	"github.com/spigell/resume-ranker/internal/server"
	"github.com/spigell/resume-ranker/internal/skills"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve resume ranking over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("address", "", "listen address (default is :8080)")
	viper.BindPFlag("serve.address", serveCmd.Flags().Lookup("address"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// loaded once, read-only for the lifetime of the process
	skillList, err := skills.Load(config.SkillsFile)
	if err != nil {
		logger.Fatal("loading skills", zap.Error(err))
	}

	screener := screening.New(document.New(logger), skillList, config.Filters, logger)

	srv := &http.Server{
		Addr:              config.Serve.Address,
		Handler:           server.New(screener, config.Serve, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutting down http server", zap.Error(err))
		}
	}()

	logger.Info("starting the resume-ranker server",
		zap.String("version", version),
		zap.String("address", srv.Addr),
		zap.Int("skills", len(skillList)),
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("http server", zap.Error(err))
	}
	logger.Info("server stopped")
}
