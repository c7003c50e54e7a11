package events

import (
	"encoding/json"
	"fmt"
)

// ErrUnknownType is returned when decoding an event with an unregistered
// type discriminator.
var ErrUnknownType = fmt.Errorf("unknown event type")

var factories = map[string]func() Event{
	TypeCustomerCreated:  func() Event { return &CustomerCreated{} },
	TypeCustomerUpdated:  func() Event { return &CustomerUpdated{} },
	TypeCustomerDeleted:  func() Event { return &CustomerDeleted{} },
	TypeAccountCreated:   func() Event { return &AccountCreated{} },
	TypeAccountActivated: func() Event { return &AccountActivated{} },
	TypeAccountSuspended: func() Event { return &AccountSuspended{} },
	TypeAccountCredited:  func() Event { return &AccountCredited{} },
	TypeAccountDebited:   func() Event { return &AccountDebited{} },
}

// Marshal serializes an event payload to JSON for persistence.
func Marshal(e Event) ([]byte, error) {
	return json.Marshal(e)
}

// Unmarshal decodes a persisted payload by its type discriminator. The
// returned value is the concrete event, not a pointer.
func Unmarshal(eventType string, payload []byte) (Event, error) {
	factory, ok := factories[eventType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, eventType)
	}
	ptr := factory()
	if err := json.Unmarshal(payload, ptr); err != nil {
		return nil, fmt.Errorf("decode %s: %w", eventType, err)
	}
	switch e := ptr.(type) {
	case *CustomerCreated:
		return *e, nil
	case *CustomerUpdated:
		return *e, nil
	case *CustomerDeleted:
		return *e, nil
	case *AccountCreated:
		return *e, nil
	case *AccountActivated:
		return *e, nil
	case *AccountSuspended:
		return *e, nil
	case *AccountCredited:
		return *e, nil
	case *AccountDebited:
		return *e, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, eventType)
	}
}
