package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/plancal/plancal/internal/scheduler"
	"github.com/plancal/plancal/internal/server"
)

var (
	servePort     int
	serveInterval int
	serveNoWatch  bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calendar API and keep maintenance running",
	Long: `Start the HTTP API for the web client and keep the collections
maintained: one pass at startup, one on a fixed interval, one after every
mutating API call, and one whenever the collection files change on disk.`,
	Example: `  # Defaults: port 3035, hourly maintenance
  plancal serve

  # Custom port, maintenance every 10 minutes
  plancal serve --port 8080 --interval 10`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "API server port (default from config)")
	serveCmd.Flags().IntVar(&serveInterval, "interval", 0, "minutes between maintenance runs (default from config)")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "don't watch the data directory for external changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	logger := NewLogger()

	port := servePort
	if port == 0 {
		port = cfg.Server.Port
	}
	interval := serveInterval
	if interval == 0 {
		interval = cfg.Server.IntervalMinutes
	}

	st, err := GetStore(logger)
	if err != nil {
		return fmt.Errorf("could not initialize the data store: %w", err)
	}
	defer func() { _ = st.Close() }()

	sched := GetScheduler(st, logger)

	// Startup pass so the calendar is current before the first request.
	if _, err := sched.RunMaintenance(time.Now()); err != nil {
		return fmt.Errorf("startup maintenance failed: %w", err)
	}

	var wg sync.WaitGroup
	errChan := make(chan error, 2)

	srv := server.New(st, sched, logger, server.Options{
		Port:           port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})
	srv.Start(&wg, errChan)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		runMaintenanceTicker(ctx, sched, time.Duration(interval)*time.Minute, logger)
	}()

	if !serveNoWatch {
		watcher, err := watchDataDir(ctx, &wg, cfg.Data.Dir, sched, logger)
		if err != nil {
			logger.Warn("data directory watch disabled", "error", err)
		} else {
			defer func() { _ = watcher.Close() }()
		}
	}

	fmt.Printf("Plancal serving on http://localhost:%d (maintenance every %dm)\n", port, interval)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-errChan:
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
		return err
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	wg.Wait()
	return nil
}

func runMaintenanceTicker(ctx context.Context, sched *scheduler.Scheduler, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := sched.RunMaintenance(time.Now()); err != nil {
				logger.Error("scheduled maintenance failed", "error", err)
			}
		}
	}
}

// watchDataDir triggers a maintenance run when a collection file changes on
// disk, e.g. after a manual edit or a sync tool write. Events are debounced
// because editors fire several per save; idempotence keeps the run cascade
// from our own writes bounded.
func watchDataDir(ctx context.Context, wg *sync.WaitGroup, dir string, sched *scheduler.Scheduler, logger *slog.Logger) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()

		var debounce *time.Timer
		trigger := make(chan struct{}, 1)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
					continue
				}
				name := filepath.Base(ev.Name)
				if strings.HasSuffix(name, ".tmp") || strings.HasSuffix(name, ".lock") {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(500*time.Millisecond, func() {
					select {
					case trigger <- struct{}{}:
					default:
					}
				})
			case <-trigger:
				logger.Debug("data directory changed, running maintenance")
				if _, err := sched.RunMaintenance(time.Now()); err != nil {
					logger.Error("maintenance after file change failed", "error", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Error("data directory watch error", "error", err)
			}
		}
	}()
	return watcher, nil
}
