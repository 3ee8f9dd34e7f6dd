package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/cash-coach/internal/models"
)

// ErrNotFound is returned when a row does not exist
var ErrNotFound = models.ErrNotFound

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const accountColumns = `a.id, a.customer_id, a.nickname, a.balance, a.currency, c.email`

func scanAccount(row interface{ Scan(...any) error }) (*models.Account, error) {
	var (
		account models.Account
		balance sql.NullFloat64
	)
	if err := row.Scan(&account.ID, &account.CustomerID, &account.Nickname, &balance, &account.Currency, &account.OwnerEmail); err != nil {
		return nil, err
	}
	if balance.Valid {
		account.Balance = &balance.Float64
	}
	return &account, nil
}

// ListAccounts returns the accounts of a customer, or all accounts for an empty customerID
func (r *Repository) ListAccounts(ctx context.Context, customerID string) ([]models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM bank.accounts a
		JOIN bank.customers c ON c.id = a.customer_id
		WHERE $1 = '' OR a.customer_id = $1
		ORDER BY a.id`
	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]models.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// GetAccount retrieves an account by ID
func (r *Repository) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM bank.accounts a
		JOIN bank.customers c ON c.id = a.customer_id
		WHERE a.id = $1`
	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return account, nil
}

// ListEvents returns the cash-flow events of an account ordered by date
func (r *Repository) ListEvents(ctx context.Context, accountID string) ([]models.CashFlowEvent, error) {
	query := `
		SELECT id, account_id, amount, COALESCE(to_char(event_date, 'YYYY-MM-DD'), ''), kind, description, is_bill
		FROM bank.cash_flow_events
		WHERE account_id = $1
		ORDER BY event_date NULLS FIRST, id`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]models.CashFlowEvent, 0)
	for rows.Next() {
		var e models.CashFlowEvent
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Amount, &e.Date, &e.Kind, &e.Description, &e.IsBill); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// FindCustomerByEmail retrieves a customer by email
func (r *Repository) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	customer := &models.Customer{}
	query := `
		SELECT id, email, name, password_hash
		FROM bank.customers
		WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&customer.ID, &customer.Email, &customer.Name, &customer.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return customer, nil
}
