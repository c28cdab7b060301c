package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/sieve"
	"github.com/aretw0/sieve/internal/logging"
	httpAdapter "github.com/aretw0/sieve/pkg/adapters/http"
	"github.com/aretw0/sieve/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/sieve/pkg/adapters/redis"
	"github.com/aretw0/sieve/pkg/observability"
	"github.com/aretw0/sieve/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scenario execution server",
	Long:  `Starts an HTTP server that runs submitted scenario documents and stores their results. Results live in memory unless a Redis address is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")
		redisTTL, _ := cmd.Flags().GetDuration("redis-ttl")
		levelName, _ := cmd.Flags().GetString("log-level")

		level, err := logging.ParseLevel(levelName)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		logger := logging.NewJSON(os.Stderr, level)

		var store ports.ResultStore
		if redisAddr != "" {
			rs := redisAdapter.New(redisAddr, "", 0, redisAdapter.WithTTL(redisTTL))
			defer rs.Close()
			store = rs
			logger.Info("using redis result store", "addr", redisAddr, "ttl", redisTTL)
		} else {
			store = memory.NewStore()
			logger.Info("using in-memory result store")
		}

		registry := prometheus.NewRegistry()
		metrics, err := observability.NewMetrics(registry)
		if err != nil {
			fmt.Printf("Error setting up metrics: %v\n", err)
			os.Exit(1)
		}

		runner := sieve.NewRunner(
			sieve.WithLogger(logger),
			sieve.WithHooks(metrics.Hooks()),
		)
		server := httpAdapter.NewServer(runner, store,
			httpAdapter.WithServerLogger(logger),
			httpAdapter.WithMetricsHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
		)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: server.Handler(),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("starting server", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("error killing server", "err", err)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("port", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for result storage (empty = in-memory)")
	serveCmd.Flags().Duration("redis-ttl", 0, "Expiration for stored results (0 = keep forever)")
}
