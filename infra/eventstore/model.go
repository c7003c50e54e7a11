package eventstore

import "time"

// Event is the persisted event record. (AggregateID, Sequence) is unique;
// GlobalOffset is the commit order across all aggregates. Offsets are
// allocated from the counter row inside Append's transaction, never by
// database autoincrement: an autoincrement value is taken at insert, so a
// slow transaction would leave a gap the subscription poller reads past
// and the skipped event would never be delivered.
type Event struct {
	GlobalOffset  uint64    `gorm:"primaryKey;autoIncrement:false"`
	AggregateID   string    `gorm:"size:64;not null;uniqueIndex:idx_events_stream,priority:1"`
	Sequence      int64     `gorm:"not null;uniqueIndex:idx_events_stream,priority:2"`
	AggregateType string    `gorm:"size:32;not null"`
	Type          string    `gorm:"size:64;not null"`
	Payload       []byte    `gorm:"not null"`
	Timestamp     time.Time `gorm:"not null"`
}

// TableName keeps the table name stable regardless of gorm pluralization.
func (Event) TableName() string { return "events" }

// offsetCounter is the single-row table Append bumps to hand out global
// offsets. Its row lock is held until the append commits, so offset order
// equals commit order.
type offsetCounter struct {
	ID    uint8  `gorm:"primaryKey"`
	Value uint64 `gorm:"not null"`
}

func (offsetCounter) TableName() string { return "event_offsets" }
