package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gigapp/gig/backend/internal/scheduler"
	"github.com/gigapp/gig/backend/internal/scheduler/jobs"
	"github.com/gigapp/gig/backend/pkg/database"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run and inspect background jobs",
	Long: `Starts the scheduler or runs a job once.

Subcommands:
  start   - run the scheduler until interrupted
  list    - registered jobs and their schedules
  run     - run one job now and print its result

Jobs:
  contract_sync       - refetch contracts (SYNC_SCHEDULE)
  dashboard_snapshot  - archive the dashboard (SNAPSHOT_SCHEDULE, needs DATABASE_URL)
  snapshot_prune      - drop snapshots older than SNAPSHOT_RETENTION (PRUNE_SCHEDULE)

Example:
  go run ./cmd/gig scheduler start
  go run ./cmd/gig scheduler run dashboard_snapshot`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a job now",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

// initScheduler registers every job the configuration allows
func initScheduler(ctx context.Context, a *app) (*scheduler.Scheduler, error) {
	loadCtx, cancel := a.commandContext()
	b, err := a.loadBoard(loadCtx)
	cancel()
	if err != nil {
		return nil, err
	}
	go b.Run(ctx)

	sched := scheduler.New(a.log)

	if err := sched.AddJob(jobs.NewContractSyncJob(b, a.cfg.Schedule.Sync, a.log)); err != nil {
		return nil, err
	}

	repo, err := a.snapshotRepository(ctx)
	switch {
	case err == nil:
		if err := sched.AddJob(jobs.NewDashboardSnapshotJob(b, repo, a.cfg.Schedule.Snapshot, a.log)); err != nil {
			return nil, err
		}
		if err := sched.AddJob(jobs.NewSnapshotPruneJob(repo, a.cfg.Schedule.SnapshotRetention, a.cfg.Schedule.Prune, a.log)); err != nil {
			return nil, err
		}
	case errors.Is(err, database.ErrNotConfigured):
		a.log.Info("DATABASE_URL not set, snapshot jobs disabled")
	default:
		return nil, fmt.Errorf("snapshot archive: %w", err)
	}

	return sched, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== Gig Scheduler ===")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched, err := initScheduler(ctx, a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	sched.Start()

	fmt.Fprintln(out, "\n✅ Scheduler started successfully")
	printJobs(newPrinter(out), sched)
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	<-ctx.Done()

	fmt.Fprintln(out, "\nShutting down scheduler...")
	sched.Stop()
	fmt.Fprintln(out, "Scheduler stopped")
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched, err := initScheduler(ctx, a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	printJobs(newPrinter(cmd.OutOrStdout()), sched)
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := a.commandContext()
	defer cancel()

	sched, err := initScheduler(ctx, a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	result, err := sched.WithRetry(0, 0).RunJobSync(ctx, args[0])
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	p := newPrinter(cmd.OutOrStdout())
	if jsonOutput {
		return p.JSON(result)
	}
	if !result.Success {
		p.Error(fmt.Sprintf("%s failed after %s: %s", result.JobName, result.Duration, result.Error))
		return errors.New(result.Error)
	}
	p.Success(fmt.Sprintf("%s completed in %s", result.JobName, result.Duration))
	return nil
}

func printJobs(p *printer, sched *scheduler.Scheduler) {
	stats := sched.GetJobStats()
	widths := []int{20, 16}

	fmt.Fprintln(p.w, "\nRegistered jobs:")
	p.TableHeader([]string{"JOB", "SCHEDULE"}, widths)
	for _, name := range sched.GetAllJobs() {
		p.TableRow([]string{name, stats[name].Schedule}, widths)
	}
}
