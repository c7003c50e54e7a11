// Package queries declares the read-side query records routed by the query
// bus.
package queries

// GetAccountByID fetches one account row.
type GetAccountByID struct {
	ID string `json:"id"`
}

// GetAccountByCustomerID fetches the account owned by a customer.
type GetAccountByCustomerID struct {
	CustomerID string `json:"customerId"`
}

// GetAllAccounts lists every account row.
type GetAllAccounts struct{}

// GetOperationByID fetches one operation row.
type GetOperationByID struct {
	ID string `json:"id"`
}

// GetOperationsByAccountID pages an account's journal, newest first.
type GetOperationsByAccountID struct {
	AccountID string `json:"accountId"`
	Page      int    `json:"page"`
	Size      int    `json:"size"`
}

// GetCustomerByID fetches one customer row; missing ids are an error.
type GetCustomerByID struct {
	ID string `json:"id"`
}

// SearchCustomers pages customers whose name, firstname or nic contains
// Keyword, ordered by firstname descending.
type SearchCustomers struct {
	Keyword string `json:"keyword"`
	Page    int    `json:"page"`
	Size    int    `json:"size"`
}

// GetAllCustomers lists every customer row.
type GetAllCustomers struct{}
