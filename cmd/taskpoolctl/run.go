package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/riftforge/taskpool"
	"github.com/riftforge/taskpool/internal/config"
	"github.com/riftforge/taskpool/internal/metrics"

	"github.com/spf13/cobra"
)

func buildRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start a pool, submit the configured workload, and wait for a shutdown signal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPool(configFile)
		},
	}
}

func runPool(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log.Printf("starting pool: workers=%d drain_on_shutdown=%t", cfg.Pool.Workers, cfg.Pool.DrainOnShutdown)

	pool := taskpool.New(cfg.Pool.Workers)

	var recorder *metrics.Recorder
	pollCtx, stopPoll := context.WithCancel(context.Background())
	defer stopPoll()

	if cfg.Metrics.Enabled {
		recorder = metrics.NewRecorder()

		srv := &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: recorder.Handler()}
		go func() {
			log.Printf("metrics listening on %s", cfg.Metrics.ListenAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("metrics server: %v", err)
			}
		}()
		go recorder.PollPool(pollCtx, pool, 500*time.Millisecond)

		defer srv.Close()
	}

	var submitted, rejected int64
	for i := 0; i < cfg.Workload.TaskCount; i++ {
		d := cfg.Workload.TaskDuration
		err := pool.Submit(func() {
			time.Sleep(d)
			if recorder != nil {
				recorder.RecordCompleted()
			}
		})
		if err != nil {
			atomic.AddInt64(&rejected, 1)
			if recorder != nil {
				recorder.RecordRejected()
			}
			continue
		}
		atomic.AddInt64(&submitted, 1)
		if recorder != nil {
			recorder.RecordSubmitted()
		}
	}

	log.Printf("submitted %d tasks (%d rejected); waiting for shutdown signal", submitted, rejected)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("shutting down")
	pool.Destroy(cfg.Pool.DrainOnShutdown)
	log.Println("pool destroyed")

	return nil
}
