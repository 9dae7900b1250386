package canvas

import (
	"errors"
	"sync/atomic"

	"github.com/fengzhu0601/pixelgrid/grid"
)

// Prof 画布统计信息
type Prof struct {
	Width          uint32
	Height         uint32
	CellNum        uint32 // Cell总数
	HeldCellNum    uint32 // 占用中的Cell数量
	ClaimNum       uint64 // 成功占用次数
	OutOfBoundsNum uint64 // 坐标越界次数
	UnderpaidNum   uint64 // 支付不足次数
	HeldRejectNum  uint64 // 单元占用中被拒绝次数
	OverflowNum    uint64 // 到期时间溢出次数
	StoreFailNum   uint64 // 持久化失败次数
	SinkFailNum    uint64 // 事件发送失败次数
}

type counter struct {
	claims      atomic.Uint64
	outOfBounds atomic.Uint64
	underpaid   atomic.Uint64
	held        atomic.Uint64
	overflow    atomic.Uint64
	storeFails  atomic.Uint64
	sinkFails   atomic.Uint64
}

func (c *counter) claim()     { c.claims.Add(1) }
func (c *counter) storeFail() { c.storeFails.Add(1) }
func (c *counter) sinkFail()  { c.sinkFails.Add(1) }

func (c *counter) reject(err error) {
	var oob *grid.OutOfBoundsError
	var pay *grid.InsufficientPaymentError
	var held *grid.CellHeldError
	switch {
	case errors.As(err, &oob):
		c.outOfBounds.Add(1)
	case errors.As(err, &pay):
		c.underpaid.Add(1)
	case errors.As(err, &held):
		c.held.Add(1)
	case errors.Is(err, grid.ErrArithmeticOverflow):
		c.overflow.Add(1)
	}
}

// Stats 获取统计信息，计数只覆盖本进程内的调用
func (c *Canvas) Stats(host Host) Prof {
	return Prof{
		Width:          c.grid.Width(),
		Height:         c.grid.Height(),
		CellNum:        c.grid.Width() * c.grid.Height(),
		HeldCellNum:    uint32(c.grid.HeldCount(host.Now())),
		ClaimNum:       c.counter.claims.Load(),
		OutOfBoundsNum: c.counter.outOfBounds.Load(),
		UnderpaidNum:   c.counter.underpaid.Load(),
		HeldRejectNum:  c.counter.held.Load(),
		OverflowNum:    c.counter.overflow.Load(),
		StoreFailNum:   c.counter.storeFails.Load(),
		SinkFailNum:    c.counter.sinkFails.Load(),
	}
}
