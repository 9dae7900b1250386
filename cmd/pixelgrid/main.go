// Command pixelgrid operates a leased pixel canvas stored in sqlite or mysql.
//
//	pixelgrid [-config file] init
//	pixelgrid [-config file] status X Y
//	pixelgrid [-config file] claim [-payment N] X Y #rrggbb
//	pixelgrid [-config file] show
//	pixelgrid [-config file] events [-limit N]
//	pixelgrid [-config file] stats
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fengzhu0601/pixelgrid/canvas"
	"github.com/fengzhu0601/pixelgrid/config"
	"github.com/fengzhu0601/pixelgrid/grid"
	"github.com/fengzhu0601/pixelgrid/logger"
	"github.com/fengzhu0601/pixelgrid/store"
	"go.uber.org/zap"
)

var errUsage = errors.New("usage: pixelgrid [-config file] init|status|claim|show|events|stats")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("pixelgrid", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config file (default: defaults + PIXELGRID_* env)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	var cfg config.Config
	if err := config.LoadFile(*cfgPath, &cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.InitLogger(cfg.Log.Path, cfg.Log.Debug)
	defer logger.Sync()

	st, err := store.Open(&cfg.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := []canvas.Option{
		canvas.WithParams(cfg.Lease.Params()),
		canvas.WithSink(grid.MultiSink{st.Events(), canvas.LogSink{}}),
	}
	cmd, rest := fs.Arg(0), fs.Args()[1:]
	if cmd == "init" {
		c, err := canvas.Construct(ctx, st, canvas.SystemHost{}, cfg.Grid.Width, cfg.Grid.Height, opts...)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "canvas %dx%d created\n", c.Width(), c.Height())
		return nil
	}

	c, err := canvas.Open(ctx, st, opts...)
	if err != nil {
		return err
	}
	switch cmd {
	case "status":
		return runStatus(c, rest, out)
	case "claim":
		return runClaim(ctx, c, grid.Amount(cfg.Lease.MinPayment), rest, out)
	case "show":
		for _, row := range c.Render(canvas.SystemHost{}) {
			fmt.Fprintln(out, row)
		}
		return nil
	case "events":
		return runEvents(ctx, st, rest, out)
	case "stats":
		// 每条命令是独立进程，占用次数取自事件表
		claims, err := st.Events().Count(ctx)
		if err != nil {
			return err
		}
		p := c.Stats(canvas.SystemHost{})
		fmt.Fprintf(out, "cells=%d held=%d claims=%d\n", p.CellNum, p.HeldCellNum, claims)
		return nil
	}
	return errUsage
}

func runStatus(c *canvas.Canvas, args []string, out io.Writer) error {
	if len(args) != 2 {
		return errors.New("usage: pixelgrid status X Y")
	}
	x, y, err := parseXY(args[0], args[1])
	if err != nil {
		return err
	}
	s, err := c.Status(canvas.SystemHost{}, x, y)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, s)
	return nil
}

func runClaim(ctx context.Context, c *canvas.Canvas, minPayment grid.Amount, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("claim", flag.ContinueOnError)
	payment := fs.Uint64("payment", uint64(minPayment), "attached payment")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 3 {
		return errors.New("usage: pixelgrid claim [-payment N] X Y #rrggbb")
	}
	x, y, err := parseXY(fs.Arg(0), fs.Arg(1))
	if err != nil {
		return err
	}
	color, err := grid.ParseColor(fs.Arg(2))
	if err != nil {
		return err
	}
	ev, err := c.Claim(ctx, canvas.SystemHost{Payment: grid.Amount(*payment)}, x, y, color)
	if err != nil {
		logger.Warn("claim failed", zap.Error(err))
		return err
	}
	fmt.Fprintf(out, "claimed (%d,%d) %s until %d\n", ev.X, ev.Y, ev.Color.Hex(), ev.Expiry)
	return nil
}

func runEvents(ctx context.Context, st *store.Store, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("events", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "number of most recent events, 0 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}
	list, err := st.Events().List(ctx, *limit)
	if err != nil {
		return err
	}
	for _, ev := range list {
		fmt.Fprintf(out, "%d (%d,%d) %s expiry=%d payment=%d\n", ev.At, ev.X, ev.Y, ev.Color.Hex(), ev.Expiry, ev.Payment)
	}
	return nil
}

func parseXY(xs, ys string) (uint32, uint32, error) {
	x, err := strconv.ParseUint(xs, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("bad x %q: %w", xs, err)
	}
	y, err := strconv.ParseUint(ys, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("bad y %q: %w", ys, err)
	}
	return uint32(x), uint32(y), nil
}
