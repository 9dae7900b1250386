package grid

import (
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"
)

// 逻辑时间(毫秒)
type Instant uint64

// 时长(毫秒)
type Duration uint64

// 支付金额(最小单位)
type Amount uint64

// 可表示的最大时间点，和持久化的 BIGINT 列保持一致
const MaxInstant Instant = math.MaxInt64

// Std 转换成 time.Duration，超出范围时截断
func (d Duration) Std() time.Duration {
	if d > Duration(math.MaxInt64/int64(time.Millisecond)) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d) * time.Millisecond
}

func (d Duration) String() string {
	return d.Std().String()
}

// Color 单元内容，RGB 三字节
type Color [3]byte

func (c Color) Hex() string {
	return "#" + hex.EncodeToString(c[:])
}

func (c Color) String() string {
	return c.Hex()
}

// ParseColor 解析 "#rrggbb" 或 "rrggbb"
func ParseColor(s string) (Color, error) {
	var c Color
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) != 6 {
		return c, fmt.Errorf("grid: invalid color %q", s)
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return c, fmt.Errorf("grid: invalid color %q: %w", s, err)
	}
	copy(c[:], b)
	return c, nil
}

// Params 租约经济参数
type Params struct {
	MinHold       Duration // 成功占用后的最短持有时长
	MinPayment    Amount   // 占用所需最低支付
	ExtensionRate Amount   // 超出最低支付部分按此除数换算成额外时长
}

// 默认参数
var DefaultParams = Params{
	MinHold:       Duration(5 * time.Minute / time.Millisecond),
	MinPayment:    1_000_000,
	ExtensionRate: 1_000,
}

func (p Params) Validate() error {
	if p.MinHold == 0 {
		return fmt.Errorf("%w: min hold must be positive", ErrInvalidParams)
	}
	if p.ExtensionRate == 0 {
		return fmt.Errorf("%w: extension rate must be positive", ErrInvalidParams)
	}
	return nil
}
