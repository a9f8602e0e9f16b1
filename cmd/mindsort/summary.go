package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neboloop/mindsort/internal/summary"
	"github.com/neboloop/mindsort/internal/svc"
)

// SummaryCmd prints a daily or weekly digest
func SummaryCmd() *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Write a daily or weekly digest of your tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := requireOwner()
			if err != nil {
				return err
			}
			p, err := summary.ParsePeriod(period)
			if err != nil {
				return err
			}
			return withServices(cmdContext(cmd), func(svcCtx *svc.ServiceContext) error {
				text, err := svcCtx.Summarizer.Summarize(cmdContext(cmd), owner, p)
				if err != nil {
					return err
				}
				if jsonOut {
					return printJSON(cmd.OutOrStdout(), map[string]string{"period": string(p), "summary": text})
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}
	addOwnerFlags(cmd)
	cmd.Flags().StringVar(&period, "period", string(summary.Daily), "daily or weekly")
	return cmd
}
