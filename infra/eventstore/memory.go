// Package eventstore provides the event log implementations: an in-memory
// store for tests and single-process development, and a gorm-backed store
// for durable deployments.
package eventstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amirasaad/bank/pkg/domain/events"
	"github.com/amirasaad/bank/pkg/eventstore"
)

// Memory is an in-memory append-only log. Safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	records []eventstore.Record
	streams map[string][]int // aggregate id -> indexes into records
	notify  chan struct{}    // closed and replaced on every append
	now     func() time.Time
}

// NewMemory builds an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		streams: make(map[string][]int),
		notify:  make(chan struct{}),
		now:     time.Now,
	}
}

// Append implements eventstore.Store.
func (m *Memory) Append(ctx context.Context, aggregateID, aggregateType string, expectedSequence int64, evts []events.Event) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	encoded := make([][]byte, len(evts))
	for i, evt := range evts {
		payload, err := events.Marshal(evt)
		if err != nil {
			return nil, fmt.Errorf("%w: encode %s: %w", eventstore.ErrStorage, evt.Type(), err)
		}
		encoded[i] = payload
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tail := int64(-1)
	if indexes := m.streams[aggregateID]; len(indexes) > 0 {
		tail = m.records[indexes[len(indexes)-1]].Sequence
	}
	if tail != expectedSequence-1 {
		return nil, fmt.Errorf("%w: stream %s tail %d, expected %d",
			eventstore.ErrConcurrencyConflict, aggregateID, tail, expectedSequence-1)
	}

	sequences := make([]int64, len(evts))
	for i, evt := range evts {
		record := eventstore.Record{
			GlobalOffset:  uint64(len(m.records) + 1),
			AggregateID:   aggregateID,
			AggregateType: aggregateType,
			Sequence:      expectedSequence + int64(i),
			Type:          evt.Type(),
			Payload:       encoded[i],
			Timestamp:     m.now(),
		}
		m.streams[aggregateID] = append(m.streams[aggregateID], len(m.records))
		m.records = append(m.records, record)
		sequences[i] = record.Sequence
	}

	close(m.notify)
	m.notify = make(chan struct{})
	return sequences, nil
}

// ReadStream implements eventstore.Store.
func (m *Memory) ReadStream(ctx context.Context, aggregateID string) ([]eventstore.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	indexes := m.streams[aggregateID]
	records := make([]eventstore.Record, 0, len(indexes))
	for _, i := range indexes {
		records = append(records, m.records[i])
	}
	return records, nil
}

// Subscribe implements eventstore.Store. The returned channel delivers every
// record past fromGlobalOffset in commit order and closes when ctx is
// cancelled.
func (m *Memory) Subscribe(ctx context.Context, fromGlobalOffset uint64) (<-chan eventstore.Record, error) {
	ch := make(chan eventstore.Record)
	go func() {
		defer close(ch)
		next := fromGlobalOffset // offsets start at 1
		for {
			m.mu.Lock()
			var batch []eventstore.Record
			if uint64(len(m.records)) > next {
				batch = append(batch, m.records[next:]...)
			}
			notify := m.notify
			m.mu.Unlock()

			for _, record := range batch {
				select {
				case ch <- record:
					next = record.GlobalOffset
				case <-ctx.Done():
					return
				}
			}
			if len(batch) > 0 {
				continue
			}
			select {
			case <-notify:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// LatestOffset implements eventstore.Store.
func (m *Memory) LatestOffset(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return uint64(len(m.records)), nil
}

var _ eventstore.Store = (*Memory)(nil)
