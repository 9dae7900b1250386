package canvas

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fengzhu0601/pixelgrid/grid"
	"github.com/fengzhu0601/pixelgrid/logger"
	"github.com/fengzhu0601/pixelgrid/store"
	"go.uber.org/zap"
)

var ErrAlreadyConstructed = errors.New("canvas: already constructed")

// Store 画布的持久化接口，整体读写
type Store interface {
	Load(ctx context.Context) (*store.Snapshot, error)
	Save(ctx context.Context, snap *store.Snapshot) error
}

type options struct {
	params grid.Params
	sink   grid.EventSink
}

type Option func(*options)

func WithParams(p grid.Params) Option {
	return func(o *options) { o.params = p }
}

// WithSink 设置占用事件接收者
func WithSink(s grid.EventSink) Option {
	return func(o *options) { o.sink = s }
}

func buildOptions(opts []Option) options {
	o := options{params: grid.DefaultParams}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Canvas 对外入口，所有变更串行执行
type Canvas struct {
	lock    sync.Mutex
	grid    *grid.Grid
	store   Store
	created grid.Instant
	counter counter
}

// Construct 一次性初始化画布并持久化
func Construct(ctx context.Context, st Store, host Host, width, height uint32, opts ...Option) (*Canvas, error) {
	o := buildOptions(opts)
	_, err := st.Load(ctx)
	if err == nil {
		return nil, ErrAlreadyConstructed
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	now := host.Now()
	g, err := grid.New(width, height, now, o.params)
	if err != nil {
		return nil, err
	}
	snap := &store.Snapshot{Width: width, Height: height, Created: now, Cells: g.Cells()}
	if err := st.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("canvas: save new canvas: %w", err)
	}
	g.SetSink(o.sink)
	logger.Info("canvas constructed", zap.Uint32("width", width), zap.Uint32("height", height), zap.Uint64("now", uint64(now)))
	return &Canvas{grid: g, store: st, created: now}, nil
}

// Open 加载已持久化的画布
func Open(ctx context.Context, st Store, opts ...Option) (*Canvas, error) {
	o := buildOptions(opts)
	snap, err := st.Load(ctx)
	if err != nil {
		return nil, err
	}
	g, err := grid.Restore(snap.Width, snap.Height, o.params, snap.Cells)
	if err != nil {
		return nil, err
	}
	g.SetSink(o.sink)
	logger.Debug("canvas opened", zap.Uint32("width", snap.Width), zap.Uint32("height", snap.Height))
	return &Canvas{grid: g, store: st, created: snap.Created}, nil
}

func (c *Canvas) Width() uint32  { return c.grid.Width() }
func (c *Canvas) Height() uint32 { return c.grid.Height() }

// Status 查询单元状态
func (c *Canvas) Status(host Host, x, y uint32) (grid.Status, error) {
	st, err := c.grid.Status(x, y, host.Now())
	if err != nil {
		c.counter.reject(err)
		return grid.Status{}, err
	}
	return st, nil
}

// Render 画布概览
func (c *Canvas) Render(host Host) []string {
	return c.grid.Render(host.Now())
}

// Claim 占用单元，时间和支付取自宿主
//
// 先把占用后的整张画布写入存储，成功后再修改内存，写入失败时内存保持不变。
func (c *Canvas) Claim(ctx context.Context, host Host, x, y uint32, color grid.Color) (grid.ClaimEvent, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	now := host.Now()
	payment := host.AttachedPayment()
	ev, err := c.grid.Quote(x, y, now, payment, color)
	if err != nil {
		c.counter.reject(err)
		logger.Debug("claim rejected", zap.Uint32("x", x), zap.Uint32("y", y), zap.Uint64("payment", uint64(payment)), zap.Error(err))
		return grid.ClaimEvent{}, err
	}

	idx, _ := grid.Index(x, y, c.grid.Width(), c.grid.Height())
	cells := c.grid.Cells()
	cells[idx] = grid.Cell{Color: color, Expiry: ev.Expiry}
	snap := &store.Snapshot{Width: c.grid.Width(), Height: c.grid.Height(), Created: c.created, Cells: cells}
	if err := c.store.Save(ctx, snap); err != nil {
		c.counter.storeFail()
		logger.Error("claim save failed", zap.Uint32("x", x), zap.Uint32("y", y), zap.Error(err))
		return grid.ClaimEvent{}, fmt.Errorf("canvas: persist claim: %w", err)
	}

	// 持有 c.lock，Quote 的结果不会变化
	ev, err = c.grid.Claim(ctx, x, y, now, payment, color)
	var sinkErr *grid.SinkError
	if errors.As(err, &sinkErr) {
		// 事件只用于通知，占用已经生效
		c.counter.sinkFail()
		logger.Warn("claim event append failed", zap.Uint32("x", x), zap.Uint32("y", y), zap.Error(sinkErr.Err))
		err = nil
	}
	if err != nil {
		return grid.ClaimEvent{}, err
	}
	c.counter.claim()
	return ev, nil
}
