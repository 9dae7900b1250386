package grid

// 单个可占用单元
type Cell struct {
	Color  Color   // 内容
	Expiry Instant // 到期时间，now >= Expiry 时单元空闲
}

// 租约状态，由 Expiry 和 now 实时计算，不保存
type LeaseState byte

const (
	Free LeaseState = 0 // 空闲，可占用
	Held LeaseState = 1 // 占用中
)

func (s LeaseState) String() string {
	if s == Held {
		return "held"
	}
	return "free"
}

// LeaseStateAt 到期时刻本身算作空闲
func LeaseStateAt(expiry, now Instant) LeaseState {
	if now >= expiry {
		return Free
	}
	return Held
}

// Remaining 距离空闲的剩余时长，空闲时为 0
func (c Cell) Remaining(now Instant) Duration {
	if LeaseStateAt(c.Expiry, now) == Free {
		return 0
	}
	return Duration(c.Expiry - now)
}
