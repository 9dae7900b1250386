package grid

import (
	"context"
	"math/bits"
	"sync"
)

// 单个画布最多容纳的单元数
const MaxCells = 1 << 24

// Grid 固定尺寸的单元集合，所有变更只能通过 Claim
type Grid struct {
	width  uint32
	height uint32
	params Params
	cells  []Cell
	sink   EventSink
	lock   sync.RWMutex
}

// New 创建画布，所有单元在 now 时刻即为空闲
func New(width, height uint32, now Instant, params Params) (*Grid, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if now > MaxInstant {
		return nil, ErrArithmeticOverflow
	}
	cells := make([]Cell, int(width)*int(height))
	for i := range cells {
		cells[i].Expiry = now
	}
	return &Grid{width: width, height: height, params: params, cells: cells}, nil
}

// Restore 从持久化数据恢复画布
func Restore(width, height uint32, params Params, cells []Cell) (*Grid, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(cells) != int(width)*int(height) {
		return nil, ErrCellCount
	}
	own := make([]Cell, len(cells))
	copy(own, cells)
	return &Grid{width: width, height: height, params: params, cells: own}, nil
}

func checkDimensions(width, height uint32) error {
	if width == 0 || height == 0 {
		return ErrZeroDimension
	}
	if uint64(width)*uint64(height) > MaxCells {
		return ErrGridTooLarge
	}
	return nil
}

// SetSink 设置占用事件的接收者，nil 表示不发送
func (g *Grid) SetSink(sink EventSink) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.sink = sink
}

func (g *Grid) Width() uint32  { return g.width }
func (g *Grid) Height() uint32 { return g.height }
func (g *Grid) Params() Params { return g.params }

// Cells 返回所有单元的副本，按线性下标排列
func (g *Grid) Cells() []Cell {
	g.lock.RLock()
	defer g.lock.RUnlock()
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return cells
}

// Status 查询单元状态，只读
func (g *Grid) Status(x, y uint32, now Instant) (Status, error) {
	idx, err := Index(x, y, g.width, g.height)
	if err != nil {
		return Status{}, err
	}
	g.lock.RLock()
	cell := g.cells[idx]
	g.lock.RUnlock()
	return newStatus(x, y, cell, now), nil
}

// Quote 计算一次占用的结果但不修改画布
func (g *Grid) Quote(x, y uint32, now Instant, payment Amount, color Color) (ClaimEvent, error) {
	idx, err := Index(x, y, g.width, g.height)
	if err != nil {
		return ClaimEvent{}, err
	}
	g.lock.RLock()
	defer g.lock.RUnlock()
	return g.quote(idx, x, y, now, payment, color)
}

// Claim 占用空闲单元，检查和写入在同一把锁内完成
//
// 占用成功但事件发送失败时返回事件和 *SinkError，此时占用已生效。
func (g *Grid) Claim(ctx context.Context, x, y uint32, now Instant, payment Amount, color Color) (ClaimEvent, error) {
	idx, err := Index(x, y, g.width, g.height)
	if err != nil {
		return ClaimEvent{}, err
	}
	g.lock.Lock()
	ev, err := g.quote(idx, x, y, now, payment, color)
	if err != nil {
		g.lock.Unlock()
		return ClaimEvent{}, err
	}
	g.cells[idx] = Cell{Color: color, Expiry: ev.Expiry}
	sink := g.sink
	g.lock.Unlock()

	if sink != nil {
		if err := sink.Append(ctx, ev); err != nil {
			return ev, &SinkError{Event: ev, Err: err}
		}
	}
	return ev, nil
}

// 调用方需持有锁
func (g *Grid) quote(idx int, x, y uint32, now Instant, payment Amount, color Color) (ClaimEvent, error) {
	// 支付检查和单元状态无关，先做
	if payment < g.params.MinPayment {
		return ClaimEvent{}, &InsufficientPaymentError{Required: g.params.MinPayment, Supplied: payment}
	}
	cell := g.cells[idx]
	if LeaseStateAt(cell.Expiry, now) == Held {
		return ClaimEvent{}, &CellHeldError{X: x, Y: y, Remaining: cell.Remaining(now)}
	}
	expiry, err := LeaseExpiry(now, payment, g.params)
	if err != nil {
		return ClaimEvent{}, err
	}
	return ClaimEvent{X: x, Y: y, Color: color, Expiry: expiry, Payment: payment, At: now}, nil
}

// LeaseExpiry 计算到期时间: now + MinHold + (payment-MinPayment)/ExtensionRate
//
// payment 必须不小于 MinPayment。结果超过 MaxInstant 时返回 ErrArithmeticOverflow。
func LeaseExpiry(now Instant, payment Amount, params Params) (Instant, error) {
	if payment < params.MinPayment {
		return 0, &InsufficientPaymentError{Required: params.MinPayment, Supplied: payment}
	}
	if params.ExtensionRate == 0 {
		return 0, ErrInvalidParams
	}
	extra := uint64(payment-params.MinPayment) / uint64(params.ExtensionRate)
	sum, carry := bits.Add64(uint64(now), uint64(params.MinHold), 0)
	if carry != 0 {
		return 0, ErrArithmeticOverflow
	}
	sum, carry = bits.Add64(sum, extra, 0)
	if carry != 0 || sum > uint64(MaxInstant) {
		return 0, ErrArithmeticOverflow
	}
	return Instant(sum), nil
}

// HeldCount 统计 now 时刻被占用的单元数
func (g *Grid) HeldCount(now Instant) int {
	g.lock.RLock()
	defer g.lock.RUnlock()
	n := 0
	for _, c := range g.cells {
		if LeaseStateAt(c.Expiry, now) == Held {
			n++
		}
	}
	return n
}
