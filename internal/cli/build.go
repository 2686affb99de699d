package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/mhalbert/chainviz/internal/config"
	"github.com/mhalbert/chainviz/pkg/chain"
	"github.com/mhalbert/chainviz/pkg/chain/elements"
	"github.com/mhalbert/chainviz/pkg/source"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	output string // output file path; "-" or empty writes to stdout
	pretty bool   // indent the JSON output
}

// newBuildCmd creates the build command, which transforms a value-chain
// document into the positioned element sequence and writes it as JSON.
//
// The argument may be a path to a document file or the name of a document in
// the configured source. With no argument, an interactive picker is shown.
func newBuildCmd(configPath *string) *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build [document]",
		Short: "Build positioned graph elements from a value-chain document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runBuild(cmd.Context(), cfg, args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "indent the JSON output")

	return cmd
}

func runBuild(ctx context.Context, cfg config.Config, args []string, opts *buildOpts) error {
	logger := loggerFromContext(ctx)

	doc, name, err := loadDocumentArg(ctx, cfg, args)
	if err != nil || doc == nil {
		return err
	}
	logger.Debugf("Loaded %s: %d entities", name, len(doc.EntityDetails))

	prog := newProgress(logger)
	els, err := elements.Build(doc, cfg.Layout)
	if err != nil {
		return err
	}
	stats := elements.Count(els)
	prog.done("Built elements")

	data, err := marshalElements(els, opts.pretty)
	if err != nil {
		return err
	}

	if opts.output == "" || opts.output == "-" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}

	if err := os.WriteFile(opts.output, data, 0644); err != nil {
		return err
	}
	printSuccess("Built %s", name)
	printStats(stats.Nodes, stats.Edges)
	printFile(opts.output)
	return nil
}

func marshalElements(els []elements.Element, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(els, "", "  ")
	}
	return json.Marshal(els)
}

// loadDocumentArg loads the document named by args. A name that resolves to
// an existing file is read directly; anything else is loaded from the
// configured source. The returned name is for display only. A nil document
// with nil error means the user declined the interactive picker.
func loadDocumentArg(ctx context.Context, cfg config.Config, args []string) (*chain.Document, string, error) {
	if len(args) > 0 {
		if _, err := os.Stat(args[0]); err == nil {
			doc, err := chain.ReadDocumentFile(args[0])
			return doc, args[0], err
		}
	}

	src, cleanup, err := openSource(ctx, cfg)
	if err != nil {
		return nil, "", err
	}
	defer cleanup()

	name, err := resolveDocument(ctx, src, args)
	if err != nil || name == "" {
		return nil, "", err
	}

	loader := source.NewLoader(src, loggerFromContext(ctx))
	doc, err := loader.Load(ctx, name)
	return doc, name, err
}
