package bt

import "github.com/zeusync/brain/internal/core/observability/log"

// LogObserver logs every tick at debug level and every verdict at info level.
type LogObserver struct {
	logger log.Log
}

func NewLogObserver(logger log.Log) *LogObserver {
	if logger == nil {
		logger = log.NewNop()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnTick(ev TickEvent) {
	fields := []log.Field{
		log.String("runner", ev.Runner),
		log.String("status", ev.Status.String()),
		log.Bool("resumed", ev.Resumed),
		log.Duration("took", ev.Duration),
	}
	if ev.Status == StatusRunning {
		o.logger.Debug("tick", fields...)
		return
	}
	o.logger.Info("verdict", fields...)
}
