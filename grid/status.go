package grid

import (
	"fmt"
	"strings"
)

// Status 单元状态描述，用于对外展示
type Status struct {
	X, Y      uint32
	Color     Color
	State     LeaseState
	Remaining Duration // 空闲时为 0
	Expiry    Instant
}

func newStatus(x, y uint32, cell Cell, now Instant) Status {
	return Status{
		X:         x,
		Y:         y,
		Color:     cell.Color,
		State:     LeaseStateAt(cell.Expiry, now),
		Remaining: cell.Remaining(now),
		Expiry:    cell.Expiry,
	}
}

func (s Status) String() string {
	if s.State == Free {
		return fmt.Sprintf("(%d,%d) %s free", s.X, s.Y, s.Color.Hex())
	}
	return fmt.Sprintf("(%d,%d) %s held, %s remaining", s.X, s.Y, s.Color.Hex(), s.Remaining)
}

// Render 按行输出画布概览，'.' 空闲，'#' 占用
func (g *Grid) Render(now Instant) []string {
	g.lock.RLock()
	defer g.lock.RUnlock()
	rows := make([]string, 0, g.height)
	var b strings.Builder
	for y := uint32(1); y <= g.height; y++ {
		b.Reset()
		for x := uint32(1); x <= g.width; x++ {
			idx, _ := Index(x, y, g.width, g.height)
			if LeaseStateAt(g.cells[idx].Expiry, now) == Held {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		rows = append(rows, b.String())
	}
	return rows
}
