package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zeusync/brain/internal/core/blackboard"
	"github.com/zeusync/brain/internal/core/brain"
	"github.com/zeusync/brain/internal/core/bt"
	"github.com/zeusync/brain/internal/core/events/bus"
	"github.com/zeusync/brain/internal/core/herd"
	"github.com/zeusync/brain/internal/core/observability/log"
	"github.com/zeusync/brain/internal/injector"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [tree]",
	Short: "Run a tree config until every agent reaches a verdict",
	Long: `Loads a tree from YAML or JSON, spawns one blackboard agent per --agents and
steps the herd until every agent succeeded or failed, or the tick budget ran out.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup(cmd)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			app.Config.Tree = args[0]
		}
		_, err = runTree(cmd.Context(), app, cmd.OutOrStdout())
		return err
	},
}

func init() {
	runCmd.Flags().Int("agents", 1, "Number of agents")
	runCmd.Flags().Int("ticks", 1000, "Tick budget, 0 for unbounded")
	rootCmd.AddCommand(runCmd)
}

// runSummary is what `brain run` reports when it stops.
type runSummary struct {
	Steps     int
	Succeeded int
	Failed    int
	Running   int
	// Writes counts blackboard writes across all agents.
	Writes uint64
}

func runTree(ctx context.Context, app *injector.App, out io.Writer) (runSummary, error) {
	var sum runSummary
	if app.Config.Tree == "" {
		return sum, fmt.Errorf("no tree given: pass a path or set 'tree' in the config")
	}
	treeCfg, err := brain.LoadFile(app.Config.Tree)
	if err != nil {
		return sum, err
	}
	reg := brain.NewRegistry[blackboard.Blackboard]()
	brain.RegisterBuiltins(reg)
	tree, err := brain.Build(treeCfg, reg)
	if err != nil {
		return sum, fmt.Errorf("build %s: %w", treeCfg.Name, err)
	}

	logger := app.Logger.With(log.String("tree", treeCfg.Name))
	sub, err := app.Bus.Subscribe(bus.AnyType, func(e bus.Event) error {
		if v, ok := e.Data.(herd.Verdict); ok {
			logger.Info(e.Type, log.String("agent", v.Agent), log.Int("ticks", v.Ticks))
		}
		return nil
	})
	if err != nil {
		return sum, err
	}
	defer func() { _ = app.Bus.Unsubscribe(sub) }()

	h := herd.New(treeCfg.Name, tree,
		herd.WithShards(app.Config.Herd.Shards),
		herd.WithBus(app.Bus),
		herd.WithLogger(logger),
		herd.WithObserver(bt.NewLogObserver(logger), app.Metrics),
	)
	for i := 0; i < app.Config.Herd.Agents; i++ {
		h.Spawn(blackboard.New())
	}

	budget := app.Config.Herd.TickBudget
	for budget == 0 || sum.Steps < budget {
		rep, err := h.Step(ctx)
		if err != nil {
			return sum, err
		}
		sum.Steps++
		sum.Succeeded += len(rep.Succeeded)
		sum.Failed += len(rep.Failed)
		sum.Running = len(rep.Running)
		if rep.Done() {
			break
		}
	}

	h.Inspect(func(a herd.Agent[blackboard.Blackboard]) {
		writes := a.State.Version()
		sum.Writes += writes
		logger.Debug("agent stopped",
			log.String("agent", a.ID),
			log.Stringer("status", a.Status),
			log.Int("ticks", a.Ticks),
			log.Int64("writes", int64(writes)),
			log.Any("keys", a.State.Keys()),
		)
	})

	_, err = fmt.Fprintf(out, "%s: %d succeeded, %d failed, %d running after %d steps\n",
		treeCfg.Name, sum.Succeeded, sum.Failed, sum.Running, sum.Steps)
	return sum, err
}
