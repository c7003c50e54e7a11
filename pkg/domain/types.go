package domain

// Sex is the declared sex of a customer.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// Valid reports whether s is one of the two accepted values.
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// AccountStatus is the lifecycle status of an account.
//
// CREATED is only ever observed transiently: account creation immediately
// emits a follow-up activation event, so by the time the read model sees a
// stable account it is ACTIVATED or SUSPENDED.
type AccountStatus string

const (
	StatusCreated   AccountStatus = "CREATED"
	StatusActivated AccountStatus = "ACTIVATED"
	StatusSuspended AccountStatus = "SUSPENDED"
)

// OperationType classifies a journal entry on an account.
type OperationType string

const (
	OperationCredit OperationType = "CREDIT"
	OperationDebit  OperationType = "DEBIT"
)

// Aggregate type discriminators persisted on every event record.
const (
	AggregateCustomer = "customer"
	AggregateAccount  = "account"
)
