package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gigapp/gig/backend/internal/api"
	"github.com/gigapp/gig/backend/internal/api/handlers"
	"github.com/gigapp/gig/backend/internal/board"
	"github.com/gigapp/gig/backend/internal/realtime"
	"github.com/gigapp/gig/backend/internal/scheduler"
	"github.com/gigapp/gig/backend/internal/scheduler/jobs"
	"github.com/gigapp/gig/backend/pkg/database"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the BFF API server",
	Long: `Serves the contract views of the signed-in party over HTTP and pushes
refresh and notification events over a websocket.

Endpoints:
  GET  /health                      - Health check
  GET  /ws                          - Push channel
  GET  /api/me                      - Acting party
  GET  /api/contracts?tab=          - Cards of a tab
  POST /api/contracts/refresh       - Refetch now
  GET  /api/contracts/{id}          - One card
  POST /api/contracts/{id}/{action} - accept | decline | cancel
  GET  /api/dashboard               - Summary
  GET  /api/dashboard/chart         - Chart series
  GET  /api/dashboard/snapshots     - Archived summaries (DATABASE_URL)
  GET  /api/calendar/marks          - Confirmed dates
  GET  /api/calendar/agenda?date=   - Confirmed contracts of a day

Example:
  go run ./cmd/gig api
  go run ./cmd/gig api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), "=== Gig API Server ===")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Push hub
	hub := realtime.NewHub(a.log)
	go hub.Run(ctx)

	// 2. Collection owner
	loadCtx, cancelLoad := a.commandContext()
	b, err := a.loadBoard(loadCtx, board.WithNotifier(hub))
	cancelLoad()
	if err != nil {
		return err
	}
	b.Subscribe(hub.OnRefresh)
	go b.Run(ctx)

	// 3. Optional snapshot archive
	var snapshots handlers.SnapshotLister
	repo, err := a.snapshotRepository(ctx)
	switch {
	case err == nil:
		snapshots = repo
	case errors.Is(err, database.ErrNotConfigured):
		a.log.Info("DATABASE_URL not set, snapshot archive disabled")
	default:
		return fmt.Errorf("snapshot archive: %w", err)
	}

	// 4. Periodic sync so changes from other devices reach connected clients
	sched := scheduler.New(a.log)
	if err := sched.AddJob(jobs.NewContractSyncJob(b, a.cfg.Schedule.Sync, a.log)); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	// 5. HTTP server
	router := api.NewRouter(api.Handlers{
		Contracts: handlers.NewContractsHandler(b, a.log),
		Dashboard: handlers.NewDashboardHandler(b, snapshots, a.log),
		Calendar:  handlers.NewCalendarHandler(b, a.log),
		WebSocket: hub.ServeWS,
	}, a.log)
	server := api.New(a.cfg, a.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n✅ Server running on http://localhost:%s as %s\n", a.cfg.Port, b.Actor())
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
