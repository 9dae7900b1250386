package canvas

import (
	"time"

	"github.com/fengzhu0601/pixelgrid/grid"
)

// Host 宿主环境，提供当前时间和本次调用附带的支付
//
// 调用方不能自行指定 now，必须由宿主给出。
type Host interface {
	Now() grid.Instant
	AttachedPayment() grid.Amount
}

// SystemHost 使用系统时钟(毫秒)
type SystemHost struct {
	Payment grid.Amount
}

func (h SystemHost) Now() grid.Instant {
	ms := time.Now().UnixMilli()
	if ms < 0 {
		return 0
	}
	return grid.Instant(ms)
}

func (h SystemHost) AttachedPayment() grid.Amount {
	return h.Payment
}

// FixedHost 固定时间的宿主，用于回放和测试
type FixedHost struct {
	At      grid.Instant
	Payment grid.Amount
}

func (h FixedHost) Now() grid.Instant            { return h.At }
func (h FixedHost) AttachedPayment() grid.Amount { return h.Payment }
