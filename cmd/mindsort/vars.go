package cli

import (
	"github.com/spf13/cobra"

	"github.com/neboloop/mindsort/internal/config"
	"github.com/neboloop/mindsort/internal/logging"
	"github.com/neboloop/mindsort/internal/svc"
)

// Shared CLI flags (used across multiple command files)
var (
	cfgFile  string
	ownerArg string
	jsonOut  bool
	verbose  bool
)

// ServerConfig holds the loaded server configuration (set by main)
var ServerConfig *config.Config

// svcOptions are passed to every service context the CLI opens.
var svcOptions []svc.Option

// SetupRootCmd configures the root command with all subcommands and flags
func SetupRootCmd(c *config.Config) *cobra.Command {
	ServerConfig = c

	rootCmd := &cobra.Command{
		Use:   "mindsort",
		Short: "MindSort - turn brain dumps into organized tasks",
		Long: `MindSort reads free-form text, extracts categorized and prioritized tasks
with a language model and keeps them per user.

Just type 'mindsort' to start the HTTP server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				loaded, err := config.LoadFile(cfgFile)
				if err != nil {
					return err
				}
				if loaded.Auth.AccessSecret == "" {
					loaded.Auth.AccessSecret = c.Auth.AccessSecret
				}
				*c = loaded
			}
			level := c.Log.Level
			if verbose {
				level = "debug"
			}
			logging.Init(level, c.Log.Format)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: embedded defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add commands
	rootCmd.AddCommand(ServeCmd())
	rootCmd.AddCommand(DumpCmd())
	rootCmd.AddCommand(TasksCmd())
	rootCmd.AddCommand(SummaryCmd())
	rootCmd.AddCommand(SessionsCmd())
	rootCmd.AddCommand(TokenCmd())
	rootCmd.AddCommand(APIKeyCmd())

	return rootCmd
}
