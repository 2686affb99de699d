package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhalbert/chainviz/internal/config"
	"github.com/mhalbert/chainviz/pkg/chain/elements"
	"github.com/mhalbert/chainviz/pkg/render"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
)

// validExportFormats is the set of supported export formats.
var validExportFormats = map[string]bool{formatDOT: true, formatSVG: true, formatPNG: true}

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	output string // output file path
	format string // output format: dot, svg, png
}

// newExportCmd creates the export command, which renders a value-chain
// document as a Graphviz artifact with the same positions the web viewer
// shows.
func newExportCmd(configPath *string) *cobra.Command {
	opts := exportOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "export [document]",
		Short: "Export a value-chain graph as DOT, SVG, or PNG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validExportFormats[opts.format] {
				return fmt.Errorf("invalid format: %s (must be 'dot', 'svg', or 'png')", opts.format)
			}
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runExport(cmd.Context(), cfg, args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: derived from document name)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot, png")

	return cmd
}

func runExport(ctx context.Context, cfg config.Config, args []string, opts *exportOpts) error {
	logger := loggerFromContext(ctx)

	doc, name, err := loadDocumentArg(ctx, cfg, args)
	if err != nil || doc == nil {
		return err
	}

	els, err := elements.Build(doc, cfg.Layout)
	if err != nil {
		return err
	}
	stats := elements.Count(els)
	logger.Debugf("Built %d nodes, %d edges", stats.Nodes, stats.Edges)

	dot := render.ToDOT(doc.RootTopic, els)

	var data []byte
	switch opts.format {
	case formatDOT:
		data = []byte(dot)
	case formatSVG:
		spinner := newSpinnerWithContext(ctx, "Rendering SVG")
		spinner.Start()
		data, err = render.RenderSVG(ctx, dot)
		spinner.Stop()
	case formatPNG:
		spinner := newSpinnerWithContext(ctx, "Rendering PNG")
		spinner.Start()
		data, err = render.RenderPNG(ctx, dot)
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	path := opts.output
	if path == "" {
		base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
		path = base + "." + opts.format
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	printSuccess("Exported %s", name)
	printStats(stats.Nodes, stats.Edges)
	printFile(path)
	return nil
}
