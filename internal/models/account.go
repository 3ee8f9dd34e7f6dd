package models

// Account represents a bank account as returned by a provider
type Account struct {
	ID         string   `json:"id"`
	CustomerID string   `json:"customer_id"`
	Nickname   string   `json:"nickname,omitempty"`
	Balance    *float64 `json:"balance,omitempty"` // nil when the provider did not report one
	Currency   string   `json:"currency,omitempty"`
	OwnerEmail string   `json:"owner_email,omitempty"`
}

// Customer represents an account holder able to log in
type Customer struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"` // Not serialized
}
