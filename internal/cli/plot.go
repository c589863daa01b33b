package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netplot/pkg/engine"
	"github.com/matzehuels/netplot/pkg/pipeline"
	"github.com/matzehuels/netplot/pkg/render"
)

// validFormats is the set of supported image formats.
var validFormats = map[string]bool{"svg": true, "png": true, "jpg": true, "jpeg": true, "pdf": true}

// plotOpts holds the output flags of the plot command.
type plotOpts struct {
	output  string
	formats []string
	backend string
}

// plotCommand creates the plot command.
func (c *CLI) plotCommand() *cobra.Command {
	flags := newPlotFlags()
	var formatsStr string
	var out plotOpts

	cmd := &cobra.Command{
		Use:   "plot <matrix>",
		Short: "Draw a network from an adjacency matrix (CSV or JSON)",
		Long: `Draw a network from an adjacency matrix.

The matrix is read from a CSV file (header row of labels) or a JSON file
({"labels": [...], "values": [[...]]}); "-" reads CSV from stdin.`,
		Example: `  netplot plot cocitation.csv -n 50 --cluster louvain --halo
  netplot plot coupling.json -t fruchterman -f svg,png -o coupling
  netplot plot authors.csv -t vosviewer --external-tool-path ~/vosviewer`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			out.formats = parseFormats(formatsStr)
			if err := validateFormats(out.formats); err != nil {
				return err
			}
			return c.runPlot(cmd.Context(), args[0], opts, flags.noCache, out)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&out.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, jpg, pdf (comma-separated)")
	cmd.Flags().StringVar(&out.backend, "renderer", string(render.BackendSVG), "canvas backend: svg, graphviz")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{string(render.FormatSVG)}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return parts
}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'svg', 'png', 'jpg' or 'pdf')", f)
		}
	}
	return nil
}

// outputPaths maps each format to its file. A single format writes to
// output as given; several formats share the base path.
func outputPaths(output, input string, formats []string) []string {
	if len(formats) == 1 && output != "" && basePath(output, input) != output {
		return []string{output}
	}
	base := basePath(output, input)
	paths := make([]string, len(formats))
	for i, f := range formats {
		paths[i] = base + "." + f
	}
	return paths
}

func (c *CLI) runPlot(ctx context.Context, input string, opts pipeline.Options, noCache bool, out plotOpts) error {
	logger := loggerFromContext(ctx)

	m, err := readMatrix(ctx, input)
	if err != nil {
		return err
	}

	bufs := make([]*bytes.Buffer, len(out.formats))
	canvases := make([]render.Canvas, len(out.formats))
	for i, f := range out.formats {
		format, err := render.ParseFormat(f)
		if err != nil {
			return err
		}
		bufs[i] = &bytes.Buffer{}
		canvases[i], err = render.NewCanvas(bufs[i], format, render.Backend(out.backend))
		if err != nil {
			return err
		}
	}

	p, err := c.newPlotter(noCache)
	if err != nil {
		return err
	}
	defer p.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Plotting %s...", input))
	restore := reportStages(logger, spinner)
	spinner.Start()
	res, err := p.Plot(ctx, m, opts, render.Multi(canvases...))
	spinner.Stop()
	restore()
	if err != nil {
		if res != nil && res.External != nil {
			printError("VOSviewer exited with status %d", res.External.ExitStatus)
		}
		return err
	}

	printSuccess("Plotted %s", input)
	communities := res.Communities
	if res.Cluster == engine.ClusterNone {
		communities = 0
	}
	printStats(res.Graph.VertexCount(), res.Graph.EdgeCount(), communities, res.CacheInfo.LayoutHit)

	if res.External != nil {
		reportExternal(res.External, opts)
		return nil
	}
	printDetail("layout %s · clustering %s · threshold %d", res.Layout, res.Cluster, res.Threshold)

	for i, path := range outputPaths(out.output, input, out.formats) {
		if err := os.WriteFile(path, bufs[i].Bytes(), 0644); err != nil {
			return err
		}
		printFile(path)
	}
	printNextStep("Browse vertices", fmt.Sprintf("%s inspect %s", appName, input))
	return nil
}

func reportExternal(info *pipeline.ExternalInfo, opts pipeline.Options) {
	if info.Skipped {
		printWarning("VOSviewer.jar not found in %q; nothing was exported", opts.ExternalToolPath)
		return
	}
	printKeyValue("Network", info.File)
	printKeyValue("Exit status", fmt.Sprint(info.ExitStatus))
}
