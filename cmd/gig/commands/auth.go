package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gigapp/gig/backend/internal/contracts"
	"github.com/gigapp/gig/backend/internal/session"
)

var (
	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Store a session token",
		Long: `Stores the bearer token issued by the Gig backend, then checks it
against /users/me. Without --token the token is read from stdin.

Example:
  go run ./cmd/gig login --token eyJhbGciOi...
  echo "$TOKEN" | go run ./cmd/gig login`,
		RunE: runLogin,
	}

	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		RunE:  runLogout,
	}

	whoamiCmd = &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and acting party",
		RunE:  runWhoami,
	}

	loginToken string
)

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringVar(&loginToken, "token", "", "bearer token (read from stdin when empty)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	token := strings.TrimSpace(loginToken)
	if token == "" {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return errors.New("no token given: pass --token or pipe it on stdin")
		}
		token = strings.TrimSpace(line)
	}
	if token == "" {
		return errors.New("empty token")
	}

	if err := a.store.Save(cmd.Context(), token); err != nil {
		if errors.Is(err, session.ErrReadOnly) {
			return fmt.Errorf("%w: unset SESSION_STORE=env to log in", err)
		}
		return fmt.Errorf("save session: %w", err)
	}

	ctx, cancel := a.commandContext()
	defer cancel()

	actor, err := a.actor(ctx)
	if err != nil {
		// A token the backend rejects is not worth keeping.
		_ = a.store.Clear(ctx)
		return err
	}

	p := newPrinter(cmd.OutOrStdout())
	if jsonOutput {
		return p.JSON(actor)
	}
	p.Success(fmt.Sprintf("Logged in as %s %s (profile %q)", actor.Kind, actor.PartyID, a.cfg.Session.Profile))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.store.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	newPrinter(cmd.OutOrStdout()).Success("Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := a.commandContext()
	defer cancel()

	profile, err := a.client.Me(ctx)
	if err != nil {
		return explain(err)
	}
	actor, err := contracts.ActorFromProfile(profile)
	if err != nil {
		return explain(err)
	}

	p := newPrinter(cmd.OutOrStdout())
	if jsonOutput {
		return p.JSON(map[string]interface{}{"profile": profile, "actor": actor})
	}

	p.Header("Signed in")
	p.KeyValue("User", fmt.Sprintf("%s (%s)", profile.Name, profile.ID), 7)
	if profile.Email != "" {
		p.KeyValue("Email", profile.Email, 7)
	}
	p.KeyValue("Acts as", actor.String(), 7)
	p.KeyValue("Backend", a.client.BaseURL(), 7)
	return nil
}
