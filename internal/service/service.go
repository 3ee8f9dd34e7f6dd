package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Dan9191/cash-coach/internal/auth"
	"github.com/Dan9191/cash-coach/internal/config"
	"github.com/Dan9191/cash-coach/internal/forecast"
	"github.com/Dan9191/cash-coach/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoPlanSnapshot     = errors.New("no plan to undo")
)

// Provider supplies accounts and their cash-flow events
type Provider interface {
	ListAccounts(ctx context.Context, customerID string) ([]models.Account, error)
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	ListEvents(ctx context.Context, accountID string) ([]models.CashFlowEvent, error)
}

// CustomerStore looks up login credentials
type CustomerStore interface {
	FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
}

// Service handles business logic
type Service struct {
	provider  Provider
	customers CustomerStore
	engine    *forecast.Engine
	log       *logrus.Logger
	config    *config.Config

	mu        sync.Mutex
	snapshots map[string][]models.CashFlowEvent // pre-plan bills per account
}

// NewService initializes a new service
func NewService(provider Provider, customers CustomerStore, engine *forecast.Engine, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		provider:  provider,
		customers: customers,
		engine:    engine,
		log:       log,
		config:    cfg,
		snapshots: make(map[string][]models.CashFlowEvent),
	}
}

// Login authenticates a customer and returns a JWT token
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	customer, err := s.customers.FindCustomerByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.log.Errorf("Failed to look up customer %s: %v", email, err)
		}
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := auth.IssueToken(s.config.JWTSecret, customer.ID, time.Now())
	if err != nil {
		return "", err
	}

	s.log.Infof("Customer logged in: %s", customer.Email)
	return token, nil
}

// ListAccounts returns the accounts visible to the caller
func (s *Service) ListAccounts(ctx context.Context) ([]models.Account, error) {
	customerID, _ := auth.CustomerID(ctx)
	accounts, err := s.provider.ListAccounts(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// inputs fetches the starting balance and events for an account. Provider
// failures other than an unknown account degrade to the default balance and
// an empty event list.
func (s *Service) inputs(ctx context.Context, accountID string) (float64, []models.CashFlowEvent, error) {
	logger := s.log.WithField("account_id", accountID)
	startBalance := s.config.DefaultStartBalance

	account, err := s.provider.GetAccount(ctx, accountID)
	switch {
	case errors.Is(err, models.ErrNotFound):
		return 0, nil, ErrAccountNotFound
	case err != nil:
		logger.Warnf("Failed to fetch account, using default balance: %v", err)
	default:
		if customerID, ok := auth.CustomerID(ctx); ok && account.CustomerID != "" && account.CustomerID != customerID {
			return 0, nil, ErrAccountNotFound
		}
		if account.Balance != nil {
			startBalance = *account.Balance
		}
	}

	events, err := s.provider.ListEvents(ctx, accountID)
	if err != nil {
		logger.Warnf("Failed to fetch events, forecasting without them: %v", err)
		events = []models.CashFlowEvent{}
	}
	return startBalance, events, nil
}

func (s *Service) run(startBalance float64, events []models.CashFlowEvent) models.ForecastResult {
	drift := s.engine.Options().DailyDrift
	if drift == 0 && !forecast.HasDatedEvents(events) {
		drift = forecast.EstimateDailyDrift(events, s.engine.Options().HorizonDays, s.config.MaxDailyDrift)
	}
	return s.engine.RunWithDrift(startBalance, events, drift)
}

// Forecast runs the full forecast for one account
func (s *Service) Forecast(ctx context.Context, accountID string) (models.ForecastResult, error) {
	startBalance, events, err := s.inputs(ctx, accountID)
	if err != nil {
		return models.ForecastResult{}, err
	}
	result := s.run(startBalance, events)
	s.log.WithFields(logrus.Fields{
		"account_id": accountID,
		"events":     len(events),
		"at_risk":    result.Risk != nil,
	}).Info("Forecast computed")
	return result, nil
}

// replan recomputes the forecast with the account's upcoming bills replaced
// by bills. Past bills and other events stay as they are.
func (s *Service) replan(ctx context.Context, accountID string, bills []models.CashFlowEvent) (models.PlanResult, error) {
	startBalance, events, err := s.inputs(ctx, accountID)
	if err != nil {
		return models.PlanResult{}, err
	}
	from := s.engine.StartDate().Format(models.DateLayout)
	merged := make([]models.CashFlowEvent, 0, len(events)+len(bills))
	for _, e := range events {
		if !forecast.IsUpcomingBill(e, from) {
			merged = append(merged, e)
		}
	}
	merged = append(merged, bills...)
	return models.PlanResult{Bills: bills, Forecast: s.run(startBalance, merged)}, nil
}

func (s *Service) currentBills(ctx context.Context, accountID string) ([]models.CashFlowEvent, error) {
	_, events, err := s.inputs(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return forecast.UpcomingBills(events, s.engine.StartDate().Format(models.DateLayout)), nil
}

// ApplyPlan applies the Stay-Positive Plan to bills, or to the account's
// upcoming bills when none are given, and remembers the input for UndoPlan
func (s *Service) ApplyPlan(ctx context.Context, accountID string, bills []models.CashFlowEvent) (models.PlanResult, error) {
	if len(bills) == 0 {
		var err error
		if bills, err = s.currentBills(ctx, accountID); err != nil {
			return models.PlanResult{}, err
		}
	}

	planned := forecast.ApplyPlan(bills)
	result, err := s.replan(ctx, accountID, planned)
	if err != nil {
		return models.PlanResult{}, err
	}

	s.mu.Lock()
	s.snapshots[accountID] = append([]models.CashFlowEvent(nil), bills...)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"account_id": accountID, "bills": len(planned)}).Info("Plan applied")
	return result, nil
}

// UndoPlan restores the bills saved by the last ApplyPlan and clears them
func (s *Service) UndoPlan(ctx context.Context, accountID string) (models.PlanResult, error) {
	s.mu.Lock()
	bills, ok := s.snapshots[accountID]
	s.mu.Unlock()
	if !ok {
		return models.PlanResult{}, ErrNoPlanSnapshot
	}

	result, err := s.replan(ctx, accountID, bills)
	if err != nil {
		return models.PlanResult{}, err
	}

	s.mu.Lock()
	delete(s.snapshots, accountID)
	s.mu.Unlock()

	s.log.WithField("account_id", accountID).Info("Plan undone")
	return result, nil
}

// DelayBill pushes one bill back by a week and recomputes
func (s *Service) DelayBill(ctx context.Context, accountID string, bills []models.CashFlowEvent, index int) (models.PlanResult, error) {
	updated, err := forecast.DelayBill(bills, index)
	if err != nil {
		return models.PlanResult{}, err
	}
	return s.replan(ctx, accountID, updated)
}

// SplitBill pays one bill in two halves a week apart and recomputes
func (s *Service) SplitBill(ctx context.Context, accountID string, bills []models.CashFlowEvent, index int) (models.PlanResult, error) {
	updated, err := forecast.SplitBill(bills, index)
	if err != nil {
		return models.PlanResult{}, err
	}
	return s.replan(ctx, accountID, updated)
}

// Categorize labels free-text descriptions with the configured taxonomy
func (s *Service) Categorize(texts []string) []string {
	taxonomy := s.engine.Options().Taxonomy
	labels := make([]string, len(texts))
	for i, text := range texts {
		labels[i] = taxonomy.Categorize(text)
	}
	return labels
}
