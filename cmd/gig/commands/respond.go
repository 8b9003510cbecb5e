package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gigapp/gig/backend/internal/board"
	"github.com/gigapp/gig/backend/internal/contracts"
)

func init() {
	for _, action := range []contracts.Action{contracts.ActionAccept, contracts.ActionDecline, contracts.ActionCancel} {
		rootCmd.AddCommand(newActionCmd(action))
	}
}

func newActionCmd(action contracts.Action) *cobra.Command {
	short := map[contracts.Action]string{
		contracts.ActionAccept:  "Accept a pending contract (band)",
		contracts.ActionDecline: "Decline a pending contract (band)",
		contracts.ActionCancel: fmt.Sprintf("Cancel a pending or confirmed contract (venue, more than %d days ahead)",
			contracts.CancellationNoticeDays),
	}[action]

	return &cobra.Command{
		Use:   fmt.Sprintf("%s [contract_id]", action),
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, action, contracts.ID(args[0]))
		},
	}
}

func runAction(cmd *cobra.Command, action contracts.Action, id contracts.ID) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := a.commandContext()
	defer cancel()

	p := newPrinter(cmd.OutOrStdout())
	b, err := a.loadBoard(ctx, board.WithNotifier(cliNotifier{p: p}))
	if err != nil {
		return err
	}

	c, ok := b.Card(id)
	if !ok {
		return fmt.Errorf("contract %s not found for %s", id, b.Actor())
	}

	refreshed := make(chan uint64, 1)
	unsubscribe := b.Subscribe(func(v uint64) {
		select {
		case refreshed <- v:
		default:
		}
	})
	defer unsubscribe()

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	go b.Run(runCtx)

	if err := c.Press(ctx, action); err != nil {
		return explain(err)
	}

	select {
	case <-refreshed:
	case <-time.After(a.cfg.API.Timeout):
		p.Info("Contract updated; refresh did not finish in time")
		return nil
	case <-ctx.Done():
		return nil
	}

	updated, ok := b.Card(id)
	if !ok {
		return nil
	}
	if jsonOutput {
		return p.JSON(updated.Render())
	}
	p.Card(updated.Render())
	return nil
}
