package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mhalbert/chainviz/internal/config"
)

// newListCmd creates the list command, which shows the documents the
// configured source offers.
func newListCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the value-chain documents available from the source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runList(cmd.Context(), cfg)
		},
	}
}

func runList(ctx context.Context, cfg config.Config) error {
	src, cleanup, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	files, err := src.List(ctx)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		printInfo("no documents available")
		return nil
	}

	for _, f := range files {
		printKeyValue(f.Name, f.Label)
	}
	return nil
}
