package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netplot/pkg/network"
	"github.com/matzehuels/netplot/pkg/pipeline"
)

const (
	exportJSON  = "json"
	exportPajek = "pajek"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	flags := newPlotFlags()
	var output, format string

	cmd := &cobra.Command{
		Use:   "export <matrix>",
		Short: "Write the reduced network as JSON or Pajek",
		Long: `Run the plot pipeline without drawing and write the resulting network.

JSON carries positions, sizes, colors and communities; Pajek (.net) carries
labels and edges in the format VOSviewer and Pajek read.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != exportJSON && format != exportPajek {
				return fmt.Errorf("invalid format: %s (must be 'json' or 'pajek')", format)
			}
			opts, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runExport(cmd.Context(), args[0], opts, flags.noCache, format, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", exportJSON, "export format: json, pajek")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, input string, opts pipeline.Options, noCache bool, format, output string) error {
	m, err := readMatrix(ctx, input)
	if err != nil {
		return err
	}
	if opts.IsExternal() {
		// Export replaces the external hand-off; use the default layout.
		opts.Type = ""
	}

	p, err := c.newPlotter(noCache)
	if err != nil {
		return err
	}
	defer p.Close()

	res, err := p.Plot(ctx, m, opts, nil)
	if err != nil {
		return err
	}

	if output == "" {
		return writeNetwork(stdout, res.Graph, format)
	}
	if err := writeNetworkFile(output, res.Graph, format); err != nil {
		return err
	}
	printSuccess("Exported %d vertices, %d edges", res.Graph.VertexCount(), res.Graph.EdgeCount())
	printFile(output)
	return nil
}

func writeNetwork(w io.Writer, g *network.Graph, format string) error {
	if format == exportPajek {
		return network.WritePajek(g, w)
	}
	return network.WriteJSON(g, w)
}

func writeNetworkFile(path string, g *network.Graph, format string) error {
	if format == exportPajek {
		return network.WritePajekFile(g, path)
	}
	return network.WriteJSONFile(g, path)
}
