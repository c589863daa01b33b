package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/netplot/pkg/engine"
	"github.com/matzehuels/netplot/pkg/pipeline"
)

// plotFlags holds the flags shared by plot, export and inspect.
type plotFlags struct {
	opts    pipeline.Options
	config  string // TOML file applied beneath explicit flags
	noCache bool
}

// newPlotFlags returns flags initialized with the pipeline defaults.
func newPlotFlags() *plotFlags {
	return &plotFlags{opts: pipeline.DefaultOptions()}
}

// register adds the option flags to cmd.
func (f *plotFlags) register(cmd *cobra.Command) {
	bindOptionFlags(cmd.Flags(), &f.opts)
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "TOML file with plot options (flags override it)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the layout cache")

	_ = cmd.RegisterFlagCompletionFunc("type", cobra.FixedCompletions(engine.LayoutTypes(), cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("cluster", cobra.FixedCompletions(engine.ClusterAlgorithms(), cobra.ShellCompDirectiveNoFileComp))
}

// bindOptionFlags binds one flag per pipeline option.
func bindOptionFlags(fs *pflag.FlagSet, o *pipeline.Options) {
	fs.IntVarP(&o.N, "top", "n", o.N, "keep the n highest-degree vertices (0 keeps all)")
	fs.IntVar(&o.MinDegree, "min-degree", o.MinDegree, "minimum degree when -n is unset")
	fs.StringVarP(&o.Type, "type", "t", o.Type, "layout: "+strings.Join(engine.LayoutTypes(), ", "))
	fs.StringVar(&o.Cluster, "cluster", o.Cluster, "community detection: "+strings.Join(engine.ClusterAlgorithms(), ", "))
	fs.BoolVar(&o.Size, "size", o.Size, "size vertices by degree")
	fs.BoolVar(&o.NoLoops, "noloops", o.NoLoops, "remove self-loops")
	fs.BoolVar(&o.RemoveMultiple, "remove-multiple", o.RemoveMultiple, "collapse parallel edges")
	fs.BoolVar(&o.RemoveIsolates, "remove-isolates", o.RemoveIsolates, "remove vertices left without edges")
	fs.Var(&o.Weighted, "weighted", `edge weights: "true" or an attribute name`)
	fs.Uint64Var(&o.Seed, "seed", o.Seed, "random seed for layouts and clustering")
	fs.BoolVar(&o.Halo, "halo", o.Halo, "outline communities")
	fs.Var(&o.Curved, "curved", "edge curvature in [-1, 1], or true for "+strconv.FormatFloat(pipeline.DefaultCurved, 'g', -1, 64))
	fs.Lookup("curved").NoOptDefVal = "true"
	fs.Float64Var(&o.EdgeSize, "edgesize", o.EdgeSize, "edge width")
	fs.Float64Var(&o.LabelSize, "labelsize", o.LabelSize, "label size multiplier")
	fs.BoolVar(&o.LabelCex, "label-cex", o.LabelCex, "scale labels by degree")
	fs.StringVar(&o.Title, "title", o.Title, "plot title")
	fs.Float64Var(&o.Width, "width", o.Width, "canvas width")
	fs.Float64Var(&o.Height, "height", o.Height, "canvas height")
	fs.StringVar(&o.ExternalToolPath, "external-tool-path", o.ExternalToolPath, "directory holding VOSviewer.jar")
	fs.DurationVar(&o.ExternalTimeout, "external-timeout", o.ExternalTimeout, "maximum VOSviewer session length")
	fs.StringVar(&o.Java, "java", o.Java, "Java launcher for VOSviewer")
}

// resolve returns the effective options: defaults, then the config file,
// then every flag set explicitly on the command line.
func (f *plotFlags) resolve(cmd *cobra.Command) (pipeline.Options, error) {
	opts := f.opts
	if f.config != "" {
		opts = pipeline.DefaultOptions()
		if err := pipeline.DecodeConfig(f.config, &opts); err != nil {
			return pipeline.Options{}, err
		}
		if err := reapplyFlags(cmd.Flags(), &opts); err != nil {
			return pipeline.Options{}, err
		}
	}
	opts.Logger = loggerFromContext(cmd.Context())
	opts.NoCache = f.noCache
	return opts, nil
}

// reapplyFlags copies the explicitly set option flags of changed onto o.
func reapplyFlags(changed *pflag.FlagSet, o *pipeline.Options) error {
	target := pflag.NewFlagSet("options", pflag.ContinueOnError)
	bindOptionFlags(target, o)
	var err error
	changed.Visit(func(fl *pflag.Flag) {
		if err != nil || target.Lookup(fl.Name) == nil {
			return
		}
		if setErr := target.Set(fl.Name, fl.Value.String()); setErr != nil {
			err = fmt.Errorf("flag --%s: %w", fl.Name, setErr)
		}
	})
	return err
}
