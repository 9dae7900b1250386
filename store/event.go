package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fengzhu0601/pixelgrid/grid"
	uuid "github.com/satori/go.uuid"
)

// EventStore 把占用事件追加到 claim_event 表
type EventStore struct {
	store *Store
}

func (s *Store) Events() *EventStore {
	return &EventStore{store: s}
}

// Append 实现 grid.EventSink
func (e *EventStore) Append(ctx context.Context, ev grid.ClaimEvent) error {
	ctx, cancel := context.WithTimeout(ctx, e.store.timeout())
	defer cancel()
	rec := &ClaimEvent{
		UUID:     uuid.NewV4().String(),
		X:        ev.X,
		Y:        ev.Y,
		Color:    ev.Color.Hex(),
		ExpiryMs: toMillis(ev.Expiry),
		Payment:  strconv.FormatUint(uint64(ev.Payment), 10),
		AtMs:     toMillis(ev.At),
	}
	if err := e.store.dbCon.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("store: append event: %w", err)
	}
	return nil
}

// List 按追加顺序返回最近 limit 条事件，limit<=0 返回全部
func (e *EventStore) List(ctx context.Context, limit int) ([]grid.ClaimEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, e.store.timeout())
	defer cancel()
	var recs []*ClaimEvent
	db := e.store.dbCon.WithContext(ctx).Order("seq desc")
	if limit > 0 {
		db = db.Limit(limit)
	}
	if err := db.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("store: list events: %w", err)
	}
	list := make([]grid.ClaimEvent, 0, len(recs))
	for i := len(recs) - 1; i >= 0; i-- {
		ev, err := recs[i].toGrid()
		if err != nil {
			return nil, err
		}
		list = append(list, ev)
	}
	return list, nil
}

// Count 已持久化的占用事件总数
func (e *EventStore) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, e.store.timeout())
	defer cancel()
	var n int64
	if err := e.store.dbCon.WithContext(ctx).Model(&ClaimEvent{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("store: count events: %w", err)
	}
	return n, nil
}

func (r *ClaimEvent) toGrid() (grid.ClaimEvent, error) {
	color, err := grid.ParseColor(r.Color)
	if err != nil {
		return grid.ClaimEvent{}, fmt.Errorf("store: event %s: %w", r.UUID, err)
	}
	payment, err := strconv.ParseUint(r.Payment, 10, 64)
	if err != nil {
		return grid.ClaimEvent{}, fmt.Errorf("store: event %s payment: %w", r.UUID, err)
	}
	return grid.ClaimEvent{
		X:       r.X,
		Y:       r.Y,
		Color:   color,
		Expiry:  grid.Instant(r.ExpiryMs),
		Payment: grid.Amount(payment),
		At:      grid.Instant(r.AtMs),
	}, nil
}
