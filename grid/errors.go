package grid

import (
	"errors"
	"fmt"
)

var (
	ErrArithmeticOverflow = errors.New("grid: lease expiry overflows")
	ErrZeroDimension      = errors.New("grid: width and height must be positive")
	ErrGridTooLarge       = errors.New("grid: too many cells")
	ErrInvalidParams      = errors.New("grid: invalid lease params")
	ErrCellCount          = errors.New("grid: cell count does not match dimensions")
	ErrIndexOutOfRange    = errors.New("grid: linear index out of range")
)

// 坐标越界
type OutOfBoundsError struct {
	X, Y          uint32
	Width, Height uint32
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("grid: coordinate (%d,%d) out of bounds, valid range is (1..%d,1..%d)", e.X, e.Y, e.Width, e.Height)
}

// 支付不足
type InsufficientPaymentError struct {
	Required Amount
	Supplied Amount
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("grid: insufficient payment, required %d, supplied %d", e.Required, e.Supplied)
}

// 单元仍被占用，Remaining 后可再次占用
type CellHeldError struct {
	X, Y      uint32
	Remaining Duration
}

func (e *CellHeldError) Error() string {
	return fmt.Sprintf("grid: cell (%d,%d) is held for another %s", e.X, e.Y, e.Remaining)
}

// 占用已生效，事件发送失败
type SinkError struct {
	Event ClaimEvent
	Err   error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("grid: cell (%d,%d) claimed, event append failed: %v", e.Event.X, e.Event.Y, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }
