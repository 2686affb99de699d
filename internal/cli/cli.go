package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mhalbert/chainviz/internal/config"
	"github.com/mhalbert/chainviz/pkg/buildinfo"
	"github.com/mhalbert/chainviz/pkg/source"
)

// Execute runs the chainviz CLI and returns an error if any command fails.
//
// The root command wires the --verbose flag into a charmbracelet logger
// stored in the command context, and --config selects the TOML
// configuration file shared by all commands.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "chainviz",
		Short:        "chainviz turns value-chain documents into drawable graph elements",
		Long:         `chainviz converts hierarchical value-chain documents (tiered entity lists plus per-entity relations) into flat, positioned graph elements for graph-drawing front ends, and serves them over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "chainviz.toml", "path to configuration file")

	root.AddCommand(newBuildCmd(&configPath))
	root.AddCommand(newExportCmd(&configPath))
	root.AddCommand(newListCmd(&configPath))
	root.AddCommand(newServeCmd(&configPath))

	return root.ExecuteContext(ctx)
}

// openSource constructs the configured document source. The returned cleanup
// function releases backend connections and is safe to call once.
func openSource(ctx context.Context, cfg config.Config) (source.Source, func(), error) {
	switch cfg.Source.Kind {
	case config.SourceMongo:
		src, disconnect, err := source.NewMongo(ctx, cfg.Source.Mongo)
		if err != nil {
			return nil, nil, err
		}
		return src, func() { _ = disconnect(context.Background()) }, nil
	default:
		src, err := source.NewDir(cfg.Source.Dir)
		if err != nil {
			return nil, nil, err
		}
		return src, func() {}, nil
	}
}

// resolveDocument returns the document name to operate on. An explicit arg
// wins; otherwise the interactive picker is shown over the source listing.
func resolveDocument(ctx context.Context, src source.Source, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	files, err := src.List(ctx)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		printInfo("no documents available")
		return "", nil
	}
	return pickDocument(files)
}
