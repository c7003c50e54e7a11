package domain

import "errors"

var (
	// ErrInsufficientBalance is returned when a debit would overdraw an account.
	ErrInsufficientBalance = errors.New("balance not sufficient")

	// ErrAccountNotFound is returned when an account cannot be found.
	ErrAccountNotFound = errors.New("account not found")

	// ErrCustomerNotFound is returned when a customer cannot be found.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrCustomerAlreadyHasAccount is returned when a second account is opened
	// for a customer that already owns one.
	ErrCustomerAlreadyHasAccount = errors.New("customer already has an account")

	// ErrAccountNotActivated is returned when a credit or debit targets an
	// account whose status is not ACTIVATED.
	ErrAccountNotActivated = errors.New("account not activated")

	// ErrNicAlreadyExists is returned when a customer is created or updated
	// with a national identity card number already in use.
	ErrNicAlreadyExists = errors.New("nic already exists")

	// ErrCustomerDeleted is returned when a command targets a deleted customer.
	ErrCustomerDeleted = errors.New("customer is deleted")

	// ErrAlreadyExists is returned when a creation command targets an
	// aggregate id that already has an event history.
	ErrAlreadyExists = errors.New("aggregate already exists")

	// ErrNotFound is returned when a command targets an aggregate id with no
	// event history.
	ErrNotFound = errors.New("aggregate not found")

	// ErrAmountMustBePositive is returned when a credit or debit amount is not
	// strictly positive.
	ErrAmountMustBePositive = errors.New("amount must be positive")
)

var sentinels = []error{
	ErrInsufficientBalance,
	ErrAccountNotFound,
	ErrCustomerNotFound,
	ErrCustomerAlreadyHasAccount,
	ErrAccountNotActivated,
	ErrNicAlreadyExists,
	ErrCustomerDeleted,
	ErrAlreadyExists,
	ErrNotFound,
	ErrAmountMustBePositive,
}

// IsDomain reports whether err wraps one of the domain sentinel errors, as
// opposed to an infrastructure failure. Transport adapters use it to choose
// between 4xx and 5xx responses.
func IsDomain(err error) bool {
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// Kind returns a stable machine-readable discriminator for a domain error,
// or "internal" for anything else.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, ErrCustomerNotFound):
		return "customer_not_found"
	case errors.Is(err, ErrCustomerAlreadyHasAccount):
		return "customer_already_has_account"
	case errors.Is(err, ErrAccountNotActivated):
		return "account_not_activated"
	case errors.Is(err, ErrNicAlreadyExists):
		return "nic_already_exists"
	case errors.Is(err, ErrCustomerDeleted):
		return "customer_deleted"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAmountMustBePositive):
		return "amount_must_be_positive"
	default:
		return "internal"
	}
}
