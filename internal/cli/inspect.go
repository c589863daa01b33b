package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netplot/pkg/network"
	"github.com/matzehuels/netplot/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	flags := newPlotFlags()
	var noTUI bool

	cmd := &cobra.Command{
		Use:   "inspect <matrix>",
		Short: "Browse vertices, degrees and communities in the terminal",
		Long: `Run the plot pipeline without drawing and list the surviving vertices
by degree, with their size, community and color.

In a terminal the list is interactive; pass --no-tui for a static table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runInspect(cmd.Context(), args[0], opts, flags.noCache, noTUI)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "print a static table instead of the interactive list")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, opts pipeline.Options, noCache, noTUI bool) error {
	m, err := readMatrix(ctx, input)
	if err != nil {
		return err
	}
	if opts.IsExternal() {
		opts.Type = ""
	}

	plotter, err := c.newPlotter(noCache)
	if err != nil {
		return err
	}
	defer plotter.Close()

	spinner := newSpinner(ctx, "Analyzing network...")
	restore := reportStages(loggerFromContext(ctx), spinner)
	spinner.Start()
	res, err := plotter.Plot(ctx, m, opts, nil)
	spinner.Stop()
	restore()
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s · %d vertices · %d communities", res.Cluster, res.Graph.VertexCount(), res.Communities)

	if noTUI || !isatty.IsTerminal(os.Stdout.Fd()) {
		printVertexTable(title, res.Graph)
		return nil
	}

	final, err := tea.NewProgram(NewVertexListModel(title, res.Graph)).Run()
	if err != nil {
		return err
	}
	fm, ok := final.(VertexListModel)
	if !ok || fm.Selected == nil {
		return nil
	}
	printVertex(res.Graph, fm.Selected.ID)
	return nil
}

func printVertexTable(title string, g *network.Graph) {
	rows := vertexRows(g)
	fmt.Fprintln(stdout, StyleTitle.Render(title))
	fmt.Fprintln(stdout, vertexTable(rows, -1))
	for _, cs := range communitySummary(rows) {
		printDetail("community %d: %d vertices", cs[0], cs[1])
	}
}

// printVertex prints one vertex and its neighbors.
func printVertex(g *network.Graph, id int) {
	v, ok := g.Vertex(id)
	if !ok {
		return
	}
	printKeyValue("Vertex", fmt.Sprintf("%d %s", v.ID, v.Label))
	printKeyValue("Degree", strconv.Itoa(v.Degree))
	printKeyValue("Size", strconv.FormatFloat(v.Size, 'f', 2, 64))
	if v.Community > 0 {
		printKeyValue("Community", strconv.Itoa(v.Community))
	}
	printKeyValue("Position", fmt.Sprintf("(%.3f, %.3f)", v.X, v.Y))

	for _, e := range g.Edges() {
		other := -1
		switch {
		case e.IsLoop():
			continue
		case e.From == id:
			other = e.To
		case e.To == id:
			other = e.From
		}
		if other < 0 {
			continue
		}
		if n, ok := g.Vertex(other); ok {
			printDetail("%s %s", iconArrow, n.Label)
		}
	}
}
