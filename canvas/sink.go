package canvas

import (
	"context"

	"github.com/fengzhu0601/pixelgrid/grid"
	"github.com/fengzhu0601/pixelgrid/logger"
	"go.uber.org/zap"
)

// LogSink 把占用事件写入日志
type LogSink struct{}

func (LogSink) Append(_ context.Context, ev grid.ClaimEvent) error {
	logger.Info("cell claimed",
		zap.Uint32("x", ev.X),
		zap.Uint32("y", ev.Y),
		zap.String("color", ev.Color.Hex()),
		zap.Uint64("expiry", uint64(ev.Expiry)),
		zap.Uint64("payment", uint64(ev.Payment)),
		zap.Uint64("at", uint64(ev.At)),
	)
	return nil
}
