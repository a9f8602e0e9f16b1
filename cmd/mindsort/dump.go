package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neboloop/mindsort/internal/pipeline"
	"github.com/neboloop/mindsort/internal/svc"
)

// DumpCmd organizes free text into tasks
func DumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [text]",
		Short: "Organize a brain dump into tasks",
		Long: `Extract tasks from free text and save them for the owner.

The text is taken from the arguments, or read from stdin when none are given:
  mindsort dump --owner alice "Surgery on 21st, feeling overwhelmed"
  pbpaste | mindsort dump --owner alice`,
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := requireOwner()
			if err != nil {
				return err
			}
			input := strings.Join(args, " ")
			if input == "" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				input = string(data)
			}
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("nothing to organize: pass text or pipe it on stdin")
			}

			return withServices(cmdContext(cmd), func(svcCtx *svc.ServiceContext) error {
				res, err := svcCtx.Pipeline.ProcessInput(cmdContext(cmd), owner, input)
				if err != nil {
					return err
				}
				if jsonOut {
					return printJSON(cmd.OutOrStdout(), res)
				}
				printDump(cmd.OutOrStdout(), res)
				return nil
			})
		},
	}
	addOwnerFlags(cmd)
	return cmd
}

func printDump(w io.Writer, res pipeline.Result) {
	if res.Fallback {
		fmt.Fprintln(w, "Could not organize the text automatically; saved it as a single task.")
	}
	fmt.Fprintf(w, "Session %s: %d task(s)\n", res.SessionID, len(res.Tasks))
	for i, t := range res.Tasks {
		line := fmt.Sprintf("  [%s] %s (%s)", t.Category, t.Title, t.Priority)
		if t.Deadline != nil {
			line += " due " + *t.Deadline
		}
		if i < len(res.TaskIDs) {
			line += "  id=" + res.TaskIDs[i]
		}
		fmt.Fprintln(w, line)
	}
	if res.DistressDetected {
		fmt.Fprintln(w, "\nIt sounds like a lot right now. Some ideas:")
		for _, s := range res.Suggestions {
			fmt.Fprintln(w, "  - "+s)
		}
	}
}
