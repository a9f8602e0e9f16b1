package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/neboloop/mindsort/internal/middleware"
)

// TokenCmd mints an access token for the HTTP, websocket and MCP surfaces
func TokenCmd() *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := requireOwner()
			if err != nil {
				return err
			}
			if ServerConfig.Auth.AccessSecret == "" {
				return fmt.Errorf("no access secret configured")
			}
			if ttl <= 0 {
				ttl = ServerConfig.AccessTTL()
			}
			token, err := middleware.IssueToken(ServerConfig.Auth.AccessSecret, owner, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&ownerArg, "owner", "", "user id the token identifies")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default: Auth.AccessExpire)")
	return cmd
}
