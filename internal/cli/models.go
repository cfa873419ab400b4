package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/camod/internal/model"
)

// ModelInfo describes one registered reaction model.
type ModelInfo struct {
	Name       string           `json:"name"`
	Species    []string         `json:"species"`
	Reactions  int              `json:"reactions"`
	Parameters model.Parameters `json:"parameters"`
}

// NewModelsCommand creates the models command.
func NewModelsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models [name]",
		Short: "List reaction models and their defaults",
		Long: `List the registered reaction models.

With a name, print that model's species and default parameters; these are
the names a run file's overrides may use.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModels(rootOpts, args, cmd)
		},
	}
	return cmd
}

func describeModel(m model.ReactionModel) ModelInfo {
	return ModelInfo{
		Name:       m.Name(),
		Species:    m.Species(),
		Reactions:  m.ReactionCount(),
		Parameters: m.DefaultParameters(),
	}
}

func runModels(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	reg := opts.registry()

	if len(args) == 1 {
		m, err := reg.Lookup(args[0])
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, "unknown model", err)
		}
		info := describeModel(m)
		if formatter.IsJSON() {
			return formatter.Success(info)
		}
		outputModelText(formatter, info)
		return nil
	}

	infos := make([]ModelInfo, 0)
	for _, name := range reg.Names() {
		m, err := reg.Lookup(name)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, "registry lookup failed", err)
		}
		infos = append(infos, describeModel(m))
	}

	if formatter.IsJSON() {
		return formatter.Success(infos)
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tREACTIONS\tSPECIES")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", info.Name, info.Reactions, strings.Join(info.Species, ", "))
	}
	return tw.Flush()
}

func outputModelText(f *OutputFormatter, info ModelInfo) {
	w := f.Writer
	fmt.Fprintf(w, "%s (%d reactions)\n", info.Name, info.Reactions)
	fmt.Fprintf(w, "  species: %s\n", strings.Join(info.Species, ", "))

	categories := []struct {
		name   string
		params model.ParamSet
	}{
		{model.CategoryVolumes, info.Parameters.Volumes},
		{model.CategoryInitConc, info.Parameters.InitialConcentrations},
		{model.CategoryKinetics, info.Parameters.Kinetics},
	}
	for _, c := range categories {
		fmt.Fprintf(w, "  %s:\n", c.name)
		for _, p := range c.params {
			fmt.Fprintf(w, "    %-12s %g\n", p.Name, p.Value)
		}
	}
}
