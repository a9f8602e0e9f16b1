package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neboloop/mindsort/internal/svc"
	"github.com/neboloop/mindsort/internal/types"
)

// SessionsCmd lists past brain dumps
func SessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List past inputs and the tasks they produced",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := requireOwner()
			if err != nil {
				return err
			}
			return withServices(cmdContext(cmd), func(svcCtx *svc.ServiceContext) error {
				list, err := svcCtx.Tasks.ListSessions(cmdContext(cmd), owner)
				if err != nil {
					return err
				}
				if jsonOut {
					resp := types.ListSessionsResponse{Sessions: make([]types.Session, len(list)), Total: len(list)}
					for i, s := range list {
						resp.Sessions[i] = types.FromSession(s)
					}
					return printJSON(cmd.OutOrStdout(), resp)
				}

				w := cmd.OutOrStdout()
				if len(list) == 0 {
					fmt.Fprintln(w, "No sessions found.")
					return nil
				}
				for _, s := range list {
					flag := ""
					if s.DistressDetected {
						flag = " (distress)"
					}
					fmt.Fprintf(w, "%s  %s  %d task(s)%s\n    %q\n",
						s.CreatedAt.Format("2006-01-02 15:04:05"), s.ID, len(s.ParsedTaskIDs), flag, s.OriginalInput)
				}
				return nil
			})
		},
	}
	addOwnerFlags(cmd)
	return cmd
}
