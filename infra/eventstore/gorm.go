package eventstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/amirasaad/bank/pkg/domain/events"
	"github.com/amirasaad/bank/pkg/eventstore"
)

// DefaultPollInterval is how often a subscription polls for new commits.
const DefaultPollInterval = 100 * time.Millisecond

// subscribeBatchSize bounds how many records one poll loads.
const subscribeBatchSize = 256

// Gorm is the durable event store over a gorm database.
type Gorm struct {
	db           *gorm.DB
	pollInterval time.Duration
	now          func() time.Time
}

// NewGorm builds a store over db. pollInterval <= 0 uses the default.
func NewGorm(db *gorm.DB, pollInterval time.Duration) *Gorm {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Gorm{db: db, pollInterval: pollInterval, now: time.Now}
}

// Migrate creates the events table and seeds the offset counter.
func (g *Gorm) Migrate() error {
	if err := g.db.AutoMigrate(&Event{}, &offsetCounter{}); err != nil {
		return err
	}
	counter := offsetCounter{ID: 1}
	return g.db.FirstOrCreate(&counter).Error
}

// Append implements eventstore.Store. All records of one call commit in one
// transaction; the unique (aggregate_id, sequence) index backstops the tail
// check under concurrent appends. Global offsets come from the counter row,
// whose write lock is held until commit: no subscriber can observe an
// offset above a still-uncommitted one, so Subscribe never skips an event.
func (g *Gorm) Append(ctx context.Context, aggregateID, aggregateType string, expectedSequence int64, evts []events.Event) ([]int64, error) {
	rows := make([]Event, len(evts))
	sequences := make([]int64, len(evts))
	for i, evt := range evts {
		payload, err := events.Marshal(evt)
		if err != nil {
			return nil, fmt.Errorf("%w: encode %s: %w", eventstore.ErrStorage, evt.Type(), err)
		}
		rows[i] = Event{
			AggregateID:   aggregateID,
			AggregateType: aggregateType,
			Sequence:      expectedSequence + int64(i),
			Type:          evt.Type(),
			Payload:       payload,
			Timestamp:     g.now(),
		}
		sequences[i] = rows[i].Sequence
	}

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Bump the counter first so concurrent appends serialize on its
		// row lock for the rest of the transaction. A rolled-back append
		// rolls the counter back too and leaves no offset hole.
		bump := tx.Model(&offsetCounter{}).
			Where("id = ?", 1).
			Update("value", gorm.Expr("value + ?", len(rows)))
		if bump.Error != nil {
			return fmt.Errorf("%w: advance offset: %w", eventstore.ErrStorage, bump.Error)
		}
		if bump.RowsAffected == 0 {
			return fmt.Errorf("%w: offset counter missing, run Migrate first", eventstore.ErrStorage)
		}
		var counter offsetCounter
		if err := tx.Where("id = ?", 1).Take(&counter).Error; err != nil {
			return fmt.Errorf("%w: read offset: %w", eventstore.ErrStorage, err)
		}
		for i := range rows {
			rows[i].GlobalOffset = counter.Value - uint64(len(rows)-1-i)
		}

		var tail struct{ Sequence int64 }
		tailSequence := int64(-1)
		result := tx.Model(&Event{}).
			Select("sequence").
			Where("aggregate_id = ?", aggregateID).
			Order("sequence DESC").
			Limit(1).
			Scan(&tail)
		if result.Error != nil {
			return fmt.Errorf("%w: read tail: %w", eventstore.ErrStorage, result.Error)
		}
		if result.RowsAffected > 0 {
			tailSequence = tail.Sequence
		}
		if tailSequence != expectedSequence-1 {
			return fmt.Errorf("%w: stream %s tail %d, expected %d",
				eventstore.ErrConcurrencyConflict, aggregateID, tailSequence, expectedSequence-1)
		}
		if err := tx.Create(&rows).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: stream %s sequence %d taken",
					eventstore.ErrConcurrencyConflict, aggregateID, expectedSequence)
			}
			return fmt.Errorf("%w: insert: %w", eventstore.ErrStorage, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sequences, nil
}

// ReadStream implements eventstore.Store.
func (g *Gorm) ReadStream(ctx context.Context, aggregateID string) ([]eventstore.Record, error) {
	var rows []Event
	if err := g.db.WithContext(ctx).
		Where("aggregate_id = ?", aggregateID).
		Order("sequence ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: read stream %s: %w", eventstore.ErrStorage, aggregateID, err)
	}
	records := make([]eventstore.Record, len(rows))
	for i, row := range rows {
		records[i] = toRecord(row)
	}
	return records, nil
}

// Subscribe implements eventstore.Store by polling in commit order.
func (g *Gorm) Subscribe(ctx context.Context, fromGlobalOffset uint64) (<-chan eventstore.Record, error) {
	ch := make(chan eventstore.Record)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(g.pollInterval)
		defer ticker.Stop()
		next := fromGlobalOffset
		for {
			var rows []Event
			err := g.db.WithContext(ctx).
				Where("global_offset > ?", next).
				Order("global_offset ASC").
				Limit(subscribeBatchSize).
				Find(&rows).Error
			if err == nil {
				for _, row := range rows {
					select {
					case ch <- toRecord(row):
						next = row.GlobalOffset
					case <-ctx.Done():
						return
					}
				}
				if len(rows) == subscribeBatchSize {
					continue // drain before sleeping
				}
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// LatestOffset implements eventstore.Store.
func (g *Gorm) LatestOffset(ctx context.Context) (uint64, error) {
	var latest struct{ GlobalOffset uint64 }
	result := g.db.WithContext(ctx).Model(&Event{}).
		Select("global_offset").
		Order("global_offset DESC").
		Limit(1).
		Scan(&latest)
	if result.Error != nil {
		return 0, fmt.Errorf("%w: latest offset: %w", eventstore.ErrStorage, result.Error)
	}
	return latest.GlobalOffset, nil
}

func toRecord(row Event) eventstore.Record {
	return eventstore.Record{
		GlobalOffset:  row.GlobalOffset,
		AggregateID:   row.AggregateID,
		AggregateType: row.AggregateType,
		Sequence:      row.Sequence,
		Type:          row.Type,
		Payload:       row.Payload,
		Timestamp:     row.Timestamp,
	}
}

var _ eventstore.Store = (*Gorm)(nil)
