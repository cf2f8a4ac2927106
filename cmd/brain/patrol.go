package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zeusync/brain/internal/core/bt"
	"github.com/zeusync/brain/internal/core/herd"
	"github.com/zeusync/brain/internal/core/observability/log"
	"github.com/zeusync/brain/internal/core/steering"
	"github.com/zeusync/brain/internal/injector"
)

// patrolCmd represents the patrol command
var patrolCmd = &cobra.Command{
	Use:   "patrol",
	Short: "Simulate agents patrolling between two waypoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup(cmd)
		if err != nil {
			return err
		}
		h := newPatrolHerd(app)
		for i := 0; i < app.Config.Herd.TickBudget; i++ {
			if err := stepPatrol(cmd.Context(), h, app.Config.Herd.TickInterval.Seconds()); err != nil {
				return err
			}
		}
		return printPositions(h, cmd.OutOrStdout())
	},
}

func init() {
	patrolCmd.Flags().Int("agents", 1, "Number of agents")
	patrolCmd.Flags().Int("ticks", 1000, "Number of simulation steps")
	rootCmd.AddCommand(patrolCmd)
}

func newPatrolHerd(app *injector.App) *herd.Herd[steering.Kinematics] {
	p := app.Config.Patrol
	a, b := steering.V(p.From[0], p.From[1]), steering.V(p.To[0], p.To[1])
	logger := app.Logger.With(log.String("tree", "patrol"))
	h := herd.New("patrol", steering.Patrol(a, b, p.Speed),
		herd.WithShards(app.Config.Herd.Shards),
		herd.WithBus(app.Bus),
		herd.WithLogger(logger),
		herd.WithObserver(bt.NewLogObserver(logger), app.Metrics),
	)
	// Agents start spread along the patrol line.
	n := app.Config.Herd.Agents
	for i := 0; i < n; i++ {
		t := float64(i) / float64(max(n, 1))
		h.Spawn(&steering.Kinematics{Position: a.Add(b.Sub(a).Scale(t))})
	}
	return h
}

// stepPatrol ticks every agent once and then integrates velocity over dt.
func stepPatrol(ctx context.Context, h *herd.Herd[steering.Kinematics], dt float64) error {
	if _, err := h.Step(ctx); err != nil {
		return err
	}
	h.Inspect(func(a herd.Agent[steering.Kinematics]) {
		a.State.Integrate(dt)
	})
	return nil
}

func printPositions(h *herd.Herd[steering.Kinematics], out io.Writer) error {
	var err error
	h.Inspect(func(a herd.Agent[steering.Kinematics]) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(out, "%s pos=(%.1f, %.1f) vel=(%.1f, %.1f)\n", a.ID,
			a.State.Position.X, a.State.Position.Y, a.State.Velocity.X, a.State.Velocity.Y)
	})
	return err
}
