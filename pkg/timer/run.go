package timer

import (
	"context"
	"time"

	"github.com/go-drift/dialtimer/pkg/errors"
)

// Run ticks the controller every Config.Tick until ctx is done and returns
// ctx.Err(). A panic inside a tick is reported and the dial is fully
// repainted on the next one.
func (c *Controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.cfg.Tick)
	defer ticker.Stop()

	c.logger.Info("controller started",
		"mode", c.mode.String(),
		"selected", c.selector.Minutes(),
		"tick", c.cfg.Tick.String(),
	)
	for {
		c.safeTick(ctx)
		select {
		case <-ctx.Done():
			c.logger.Info("controller stopped", "mode", c.mode.String())
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Controller) safeTick(ctx context.Context) {
	guard := errors.Guard{
		Op:      "timer.Tick",
		Mode:    func() string { return c.mode.String() },
		OnPanic: func(any) { c.renderer.Invalidate() },
	}
	defer guard.Recover()
	c.Tick(ctx)
}
