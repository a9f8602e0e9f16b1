package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neboloop/mindsort/internal/ai"
	"github.com/neboloop/mindsort/internal/keyring"
)

// APIKeyCmd manages provider API keys in the OS keychain
func APIKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Store or remove provider API keys in the OS keychain",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <provider> [key]",
		Short: "Save an API key; reads it from stdin when omitted",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := checkProvider(args[0])
			if err != nil {
				return err
			}
			var key string
			if len(args) == 2 {
				key = args[1]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read key: %w", err)
				}
				key = line
			}
			if err := keyring.SetAPIKey(provider, strings.TrimSpace(key)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s API key to the keychain\n", provider)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <provider>",
		Short: "Remove a stored API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := checkProvider(args[0])
			if err != nil {
				return err
			}
			if err := keyring.DeleteAPIKey(provider); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s API key\n", provider)
			return nil
		},
	})

	return cmd
}

func checkProvider(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range ai.Providers {
		if p == name {
			return name, nil
		}
	}
	return "", fmt.Errorf("unknown provider %q (want one of %s)", name, strings.Join(ai.Providers, ", "))
}
