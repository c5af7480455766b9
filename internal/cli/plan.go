package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/wallplan/pkg/dataplan"
	wpio "github.com/matzehuels/wallplan/pkg/io"
	"github.com/matzehuels/wallplan/pkg/pipeline"
	"github.com/matzehuels/wallplan/pkg/wall"
)

// Output formats for the plan command.
const (
	formatTable = "table"
	formatJSON  = "json"
)

// planFlags holds the option-bundle flags shared by plan and view.
type planFlags struct {
	pathMode    string
	loom        int
	group       int
	rack        string
	source      string
	feeds       int
	voltage     int
	processor   string
	card        string
	parallelism int
}

func (f *planFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.pathMode, "path-mode", "", "cabinet path: SNAKE_ROWS, SNAKE_COLUMNS or CUSTOM")
	fs.IntVar(&f.loom, "loom", 0, "ports per loom bundle")
	fs.IntVar(&f.group, "group", 0, "ports per port group")
	fs.StringVar(&f.rack, "rack", "", "rack location: SL, SR, USC or FOH")
	fs.StringVar(&f.source, "source", "", "power source: SOCAPEX, L21-30 or EDISON_20A")
	fs.IntVar(&f.feeds, "feeds", 0, "identical power sources per wall")
	fs.IntVar(&f.voltage, "voltage", 0, "supply voltage: 120 or 208")
	fs.StringVar(&f.processor, "processor", "", "processor model id from the catalog")
	fs.StringVar(&f.card, "card", "", "receiving card: A8s or A10s")
	fs.IntVar(&f.parallelism, "parallelism", 0, "walls planned concurrently")
}

// apply layers flags the user actually set over base.
func (f *planFlags) apply(fs *pflag.FlagSet, base pipeline.Options) pipeline.Options {
	o := base
	if fs.Changed("path-mode") {
		o.PathMode = dataplan.PathMode(strings.ToUpper(f.pathMode))
	}
	if fs.Changed("loom") {
		o.LoomBundleSize = f.loom
	}
	if fs.Changed("group") {
		o.PortGroupSize = f.group
	}
	if fs.Changed("rack") {
		o.RackLocation = wall.RackLocation(strings.ToUpper(f.rack))
	}
	if fs.Changed("source") {
		o.Source = f.source
	}
	if fs.Changed("feeds") {
		o.Feeds = f.feeds
	}
	if fs.Changed("voltage") {
		o.Voltage = wall.Voltage(f.voltage)
	}
	if fs.Changed("processor") {
		o.ProcessorID = f.processor
	}
	if fs.Changed("card") {
		o.Card = wall.ReceivingCard(f.card)
	}
	if fs.Changed("parallelism") {
		o.Parallelism = f.parallelism
	}
	return o
}

// options resolves the bundle from config defaults and flags.
func (c *CLI) options(cmd *cobra.Command, f *planFlags) (pipeline.Options, error) {
	cfg, err := c.config()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := f.apply(cmd.Flags(), cfg.Plan)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// planCommand creates the plan command.
func (c *CLI) planCommand() *cobra.Command {
	var (
		flags   planFlags
		wallIDs []string
		format  string
		output  string
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "plan <project>",
		Short: "Plan data runs, power circuits and totals for a project",
		Long: `Plan every wall of a project file (or the walls named with --wall).

IMAG mirror walls are derived from their master, so a mirror named with
--wall is planned together with its master.`,
		Example: `  wallplan plan arena.toml
  wallplan plan arena.toml --wall main --source L21-30 --feeds 2
  wallplan plan arena.yaml --format json -o plan.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			opts.Refresh = refresh

			p, err := wpio.Load(args[0])
			if err != nil {
				return fmt.Errorf("load project: %w", err)
			}
			if len(wallIDs) > 0 {
				p, err = selectWalls(p, wallIDs)
				if err != nil {
					return err
				}
			}

			runner, err := c.newRunner(cmd.Context(), p.Name)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			set, err := runner.PlanProject(cmd.Context(), p, opts)
			if err != nil {
				return fmt.Errorf("plan: %w", err)
			}
			prog.done("planned project", "walls", len(set.Walls), "cached", len(set.CacheHits))

			switch strings.ToLower(format) {
			case formatJSON:
				return writePlanJSON(cmd, set, output)
			case formatTable:
				printPlanSet(set, wallIDs)
				return nil
			default:
				return fmt.Errorf("unknown format %q (want %s or %s)", format, formatTable, formatJSON)
			}
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringSliceVarP(&wallIDs, "wall", "w", nil, "plan only these walls (repeatable)")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write JSON to this file instead of stdout")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached plans")

	return cmd
}

// selectWalls keeps the named walls plus the masters their mirrors need.
func selectWalls(p wpio.Project, ids []string) (wpio.Project, error) {
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		e, err := p.Wall(id)
		if err != nil {
			return wpio.Project{}, err
		}
		keep[id] = true
		if master, ok := e.Wall.ImagMasterWallID.Get(); ok && e.Wall.IsMirror() {
			keep[master] = true
		}
	}

	out := p
	out.Walls = nil
	for _, e := range p.Walls {
		if keep[e.Wall.ID] {
			out.Walls = append(out.Walls, e)
		}
	}
	return out, nil
}

func writePlanJSON(cmd *cobra.Command, set *pipeline.PlanSet, output string) error {
	if output == "" {
		return wpio.WriteJSON(cmd.OutOrStdout(), set)
	}
	if err := wpio.ExportJSON(set, output); err != nil {
		return fmt.Errorf("write plan: %w", err)
	}
	printSuccess("Plan written")
	printFile(output)
	return nil
}

// printPlanSet prints tables for each wall. When only is set, masters pulled
// in for their mirrors are not printed.
func printPlanSet(set *pipeline.PlanSet, only []string) {
	show := func(string) bool { return true }
	if len(only) > 0 {
		want := make(map[string]bool, len(only))
		for _, id := range only {
			want[id] = true
		}
		show = func(id string) bool { return want[id] }
	}

	cached := make(map[string]bool, len(set.CacheHits))
	for _, id := range set.CacheHits {
		cached[id] = true
	}

	for _, wp := range set.Walls {
		if !show(wp.WallID) {
			continue
		}
		title := wp.WallID
		if wp.Name != "" {
			title = fmt.Sprintf("%s (%s)", wp.Name, wp.WallID)
		}
		if wp.Data.MirrorOf != "" {
			title += StyleDim.Render(" mirror of " + wp.Data.MirrorOf)
		}

		printBlock(StyleTitle.Render(title))
		printStats(len(wp.Data.Runs), wp.Power.CircuitCount, wp.Totals.ActiveCabinets, cached[wp.WallID])
		printKeyValue("Processor", fmt.Sprintf("%s (%d ports) %s", wp.Data.ProcessorID, wp.Data.PortCount, wp.Data.Card))
		printKeyValue("Power", fmt.Sprintf("%s x%d @ %dV", wp.Power.Source, wp.Power.Feeds, wp.Power.Voltage))
		printKeyValue("Resolution", fmt.Sprintf("%dx%d", wp.Totals.ResolutionWidth, wp.Totals.ResolutionHeight))
		printKeyValue("Weight", fmt.Sprintf("%.1f kg / %.1f lbs", wp.Totals.WeightKG, wp.Totals.WeightLBS))
		printKeyValue("Total amps", fmt.Sprintf("%.2f typ / %.2f max", wp.Power.TotalAmps.Typ, wp.Power.TotalAmps.Max))

		if len(wp.Data.Runs) > 0 {
			printBlock(runsTable(wp.Data))
		}
		if len(wp.Power.Circuits) > 0 {
			printBlock(circuitsTable(wp.Power))
		}
		if len(wp.Totals.Variants) > 0 {
			printBlock(totalsTable(wp.Totals))
		}
		printWarnings(wp.Warnings())
		printNewline()
	}
}
