package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeusync/brain/internal/core/herd"
	"github.com/zeusync/brain/internal/core/observability/log"
	"github.com/zeusync/brain/internal/core/steering"
	"github.com/zeusync/brain/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a patrol herd and expose it over HTTP",
	Long: `Steps a patrol herd on a ticker and serves /metrics (Prometheus), /agents (JSON)
and /ws (a websocket stream with one snapshot per step).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			app.Config.HTTP.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		h := newPatrolHerd(app)
		srvCfg := server.DefaultConfig()
		srvCfg.Addr = app.Config.HTTP.Addr
		srv := server.New(srvCfg, func() any { return snapshot(h) }, app.Registry, app.Logger)
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := srv.Stop(); err != nil {
				app.Logger.Warn("stop server", log.Error(err))
			}
		}()

		return servePatrol(ctx, h, srv, app.Config.Herd.TickInterval, app.Logger)
	},
}

func init() {
	serveCmd.Flags().Int("agents", 8, "Number of agents")
	serveCmd.Flags().String("addr", "", "Listen address, overrides http.addr")
	rootCmd.AddCommand(serveCmd)
}

type agentSnapshot struct {
	ID       string        `json:"id"`
	Status   string        `json:"status"`
	Ticks    int           `json:"ticks"`
	Position steering.Vec2 `json:"position"`
	Velocity steering.Vec2 `json:"velocity"`
}

type stepSnapshot struct {
	Step   int             `json:"step"`
	Agents []agentSnapshot `json:"agents"`
}

func snapshot(h *herd.Herd[steering.Kinematics]) []agentSnapshot {
	out := make([]agentSnapshot, 0, h.Len())
	h.Inspect(func(a herd.Agent[steering.Kinematics]) {
		out = append(out, agentSnapshot{
			ID:       a.ID,
			Status:   a.Status.String(),
			Ticks:    a.Ticks,
			Position: a.State.Position,
			Velocity: a.State.Velocity,
		})
	})
	return out
}

func servePatrol(ctx context.Context, h *herd.Herd[steering.Kinematics], srv *server.Server, interval time.Duration, logger log.Log) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for step := 1; ; step++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if err := stepPatrol(ctx, h, interval.Seconds()); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if srv.Clients() == 0 {
			continue
		}
		if err := srv.Broadcast(stepSnapshot{Step: step, Agents: snapshot(h)}); err != nil {
			logger.Debug("broadcast", log.Error(err))
		}
	}
}
