package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gigapp/gig/backend/internal/calendar"
	"github.com/gigapp/gig/backend/internal/card"
	"github.com/gigapp/gig/backend/internal/contracts"
)

var (
	contractsCmd = &cobra.Command{
		Use:     "contracts",
		Aliases: []string{"ls"},
		Short:   "List contracts by tab",
		Long: `Lists the acting party's contracts. The "all" tab shows the dashboard
followed by every contract; the other tabs filter by status.

Tabs: all, pending, confirmed, declined, canceled

Example:
  go run ./cmd/gig contracts
  go run ./cmd/gig contracts --tab pending`,
		RunE: runContracts,
	}

	showCmd = &cobra.Command{
		Use:   "show [contract_id]",
		Short: "Show one contract card",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}

	dashboardCmd = &cobra.Command{
		Use:   "dashboard",
		Short: "Show revenue, counts and the next shows",
		RunE:  runDashboard,
	}

	calendarCmd = &cobra.Command{
		Use:   "calendar",
		Short: "Show confirmed dates, or the agenda of one day",
		Long: `Without --date lists every date with a confirmed contract.
With --date lists that day's confirmed contracts in time order.

Example:
  go run ./cmd/gig calendar
  go run ./cmd/gig calendar --date 2025-06-21`,
		RunE: runCalendar,
	}

	contractsTab string
	calendarDate string
)

func init() {
	rootCmd.AddCommand(contractsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(calendarCmd)

	contractsCmd.Flags().StringVar(&contractsTab, "tab", "all", "all|pending|confirmed|declined|canceled")
	calendarCmd.Flags().StringVar(&calendarDate, "date", "", "day to list (YYYY-MM-DD)")
}

func renderAll(cards []*card.Card) []card.View {
	views := make([]card.View, 0, len(cards))
	for _, c := range cards {
		views = append(views, c.Render())
	}
	return views
}

func runContracts(cmd *cobra.Command, args []string) error {
	tab, err := contracts.ParseTab(contractsTab)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := a.commandContext()
	defer cancel()

	b, err := a.loadBoard(ctx)
	if err != nil {
		return err
	}

	views := renderAll(b.Cards(tab))
	p := newPrinter(cmd.OutOrStdout())
	if jsonOutput {
		return p.JSON(views)
	}

	if tab.ShowsDashboard() {
		p.Dashboard(b.Dashboard())
		fmt.Fprintln(cmd.OutOrStdout())
	}
	p.Cards(tab, views)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := a.commandContext()
	defer cancel()

	b, err := a.loadBoard(ctx)
	if err != nil {
		return err
	}

	c, ok := b.Card(contracts.ID(args[0]))
	if !ok {
		return fmt.Errorf("contract %s not found for %s", args[0], b.Actor())
	}

	p := newPrinter(cmd.OutOrStdout())
	if jsonOutput {
		return p.JSON(c.Render())
	}
	p.Card(c.Render())
	return nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := a.commandContext()
	defer cancel()

	b, err := a.loadBoard(ctx)
	if err != nil {
		return err
	}

	p := newPrinter(cmd.OutOrStdout())
	if jsonOutput {
		return p.JSON(b.Dashboard())
	}
	p.Dashboard(b.Dashboard())
	return nil
}

func runCalendar(cmd *cobra.Command, args []string) error {
	if calendarDate != "" {
		if _, ok := contracts.ParseDay(calendarDate); !ok {
			return fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", calendarDate)
		}
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := a.commandContext()
	defer cancel()

	b, err := a.loadBoard(ctx)
	if err != nil {
		return err
	}

	p := newPrinter(cmd.OutOrStdout())
	if calendarDate == "" {
		if jsonOutput {
			return p.JSON(b.Marked())
		}
		p.Calendar(b.Marked())
		return nil
	}

	date := calendar.NormalizeDate(calendarDate)
	views := make([]card.View, 0)
	for _, c := range b.Agenda(date) {
		if cd, ok := b.Card(c.ID); ok {
			views = append(views, cd.Render())
		}
	}
	if jsonOutput {
		return p.JSON(views)
	}

	p.Header(fmt.Sprintf("Agenda for %s", date))
	if len(views) == 0 {
		p.Info(fmt.Sprintf("No confirmed contracts on %s.", date))
		return nil
	}
	for i, v := range views {
		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		p.Card(v)
	}
	return nil
}
