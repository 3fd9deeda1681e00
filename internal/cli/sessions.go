package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/areamap/pkg/session"
)

// sessionsCommand lists saved games.
func (c *CLI) sessionsCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List saved games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := session.NewFileStore(dir)
			if err != nil {
				return err
			}
			defer store.Close()

			list, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				printInfo("No saved games")
				printDetail("Directory: %s", store.Path())
				return nil
			}
			fmt.Fprintln(c.Out, sessionsTable(list, time.Now()).Render())
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "session-dir", "", "directory for saved games (default: ~/.config/areamap/sessions)")
	return cmd
}

func sessionsTable(list []*session.Session, now time.Time) *table.Table {
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		rows = append(rows, []string{
			s.ID,
			strconv.Itoa(s.State.Turn),
			string(s.State.Phase),
			leader(s),
			s.ExpiresAt.Sub(now).Round(time.Minute).String(),
		})
	}
	return newTable([]string{"Session", "Turn", "Phase", "Leader", "Expires in"}, rows, false)
}

// leader returns the id of the most powerful area, or "-".
func leader(s *session.Session) string {
	best := "-"
	power := 0.0
	for _, a := range s.State.Areas {
		if best == "-" || a.Power > power {
			best, power = a.ID, a.Power
		}
	}
	return best
}

// completeSessions offers saved game ids, newest first. It reads the
// command's --session-dir flag when there is one.
func completeSessions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx, dir := context.Background(), ""
	if cmd != nil {
		if cmd.Context() != nil {
			ctx = cmd.Context()
		}
		if f := cmd.Flags().Lookup("session-dir"); f != nil {
			dir = f.Value.String()
		}
	}
	store, err := session.NewFileStore(dir)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer store.Close()
	list, err := store.List(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	for _, s := range list {
		if strings.HasPrefix(s.ID, toComplete) {
			out = append(out, fmt.Sprintf("%s\tturn %d, %s", s.ID, s.State.Turn, s.State.Phase))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
