package webapi

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

// StoredEvent is the wire form of one event record.
type StoredEvent struct {
	GlobalOffset  uint64          `json:"globalOffset"`
	AggregateID   string          `json:"aggregateId"`
	AggregateType string          `json:"aggregateType"`
	Sequence      int64           `json:"sequence"`
	Type          string          `json:"type"`
	Payload       json.RawMessage `json:"payload"`
	Timestamp     time.Time       `json:"timestamp"`
}

// EventStoreRoutes registers the raw event stream read endpoint.
func EventStoreRoutes(app *fiber.App, deps Deps) {
	app.Get("/events/store/get/:id", func(c *fiber.Ctx) error {
		records, err := deps.Store.ReadStream(c.Context(), c.Params("id"))
		if err != nil {
			return DomainErrorResponse(c, err)
		}
		out := make([]StoredEvent, len(records))
		for i, record := range records {
			out[i] = StoredEvent{
				GlobalOffset:  record.GlobalOffset,
				AggregateID:   record.AggregateID,
				AggregateType: record.AggregateType,
				Sequence:      record.Sequence,
				Type:          record.Type,
				Payload:       json.RawMessage(record.Payload),
				Timestamp:     record.Timestamp,
			}
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "events found", out)
	})
}
