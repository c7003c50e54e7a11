// Package commands declares the write-side command records accepted by the
// command bus. Commands are JSON-serializable and validated before dispatch.
package commands

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Command is implemented by every command record.
type Command interface {
	// AggregateID is the id of the aggregate the command targets.
	AggregateID() string
	// CommandType names the command for routing, logging and metrics.
	CommandType() string
}

var validate = validator.New()

// Validate runs struct-tag validation on a command.
func Validate(cmd Command) error {
	if err := validate.Struct(cmd); err != nil {
		return fmt.Errorf("invalid %s: %w", cmd.CommandType(), err)
	}
	return nil
}
