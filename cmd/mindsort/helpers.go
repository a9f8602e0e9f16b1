package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/neboloop/mindsort/internal/svc"
)

var errOwnerRequired = errors.New("--owner is required")

// addOwnerFlags registers the flags every per-user command shares.
func addOwnerFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ownerArg, "owner", "", "user id the command acts for")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON instead of text")
}

func requireOwner() (string, error) {
	if ownerArg == "" {
		return "", errOwnerRequired
	}
	return ownerArg, nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// withServices opens a service context for the duration of fn.
func withServices(ctx context.Context, fn func(*svc.ServiceContext) error) error {
	svcCtx, err := svc.NewServiceContext(ctx, *ServerConfig, svcOptions...)
	if err != nil {
		return err
	}
	defer svcCtx.Close()
	return fn(svcCtx)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
