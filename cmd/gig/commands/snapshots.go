package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gigapp/gig/backend/internal/contracts"
)

var (
	snapshotsCmd = &cobra.Command{
		Use:   "snapshots",
		Short: "List archived dashboard summaries",
		Long: `Lists the dashboard snapshots the scheduler archived for the acting
party, newest first. Requires DATABASE_URL.

Example:
  go run ./cmd/gig snapshots --limit 10`,
		RunE: runSnapshots,
	}

	snapshotsLimit int
)

func init() {
	rootCmd.AddCommand(snapshotsCmd)

	snapshotsCmd.Flags().IntVar(&snapshotsLimit, "limit", 30, "maximum number of snapshots")
}

func runSnapshots(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := a.commandContext()
	defer cancel()

	repo, err := a.snapshotRepository(ctx)
	if err != nil {
		return fmt.Errorf("snapshot archive: %w", err)
	}

	actor, err := a.actor(ctx)
	if err != nil {
		return explain(err)
	}

	snapshots, err := repo.ListRecent(ctx, actor, snapshotsLimit)
	if err != nil {
		return err
	}

	p := newPrinter(cmd.OutOrStdout())
	if jsonOutput {
		return p.JSON(snapshots)
	}

	p.Header(fmt.Sprintf("Snapshots for %s", actor))
	if len(snapshots) == 0 {
		p.Info("No snapshots archived yet. Run `gig scheduler run dashboard_snapshot`.")
		return nil
	}

	widths := []int{17, 7, 14, 8, 9, 9}
	p.TableHeader([]string{"TAKEN", "TOTAL", "REVENUE", "PENDING", "UPCOMING", "CONFIRM"}, widths)
	for _, s := range snapshots {
		p.TableRow([]string{
			s.TakenAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(s.Total),
			money(s.TotalRevenue),
			strconv.Itoa(s.PendingCount),
			strconv.Itoa(s.UpcomingConfirmedCount),
			strconv.Itoa(s.StatusCounts[contracts.StatusConfirmed]),
		}, widths)
	}
	return nil
}
