package grid

import (
	"context"
	"errors"
	"sync"
)

// ClaimEvent 占用成功后的审计记录
type ClaimEvent struct {
	X, Y    uint32
	Color   Color
	Expiry  Instant
	Payment Amount
	At      Instant // 占用发生的时间
}

// EventSink 只追加的事件接收者，ctx 来自发起占用的调用
type EventSink interface {
	Append(ctx context.Context, ev ClaimEvent) error
}

// MemorySink 内存中的事件列表
type MemorySink struct {
	lock   sync.Mutex
	events []ClaimEvent
}

func (m *MemorySink) Append(_ context.Context, ev ClaimEvent) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.events = append(m.events, ev)
	return nil
}

// Events 返回已记录事件的副本
func (m *MemorySink) Events() []ClaimEvent {
	m.lock.Lock()
	defer m.lock.Unlock()
	list := make([]ClaimEvent, len(m.events))
	copy(list, m.events)
	return list
}

// MultiSink 依次发送给所有接收者，一个失败不影响其他
type MultiSink []EventSink

func (ms MultiSink) Append(ctx context.Context, ev ClaimEvent) error {
	var errs []error
	for _, s := range ms {
		if s == nil {
			continue
		}
		if err := s.Append(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
