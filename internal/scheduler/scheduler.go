// Package scheduler periodically forecasts every account and alerts owners
// whose balance is projected to go negative.
package scheduler

import (
	"context"

	"github.com/Dan9191/cash-coach/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Forecaster is the part of the service the scan needs
type Forecaster interface {
	ListAccounts(ctx context.Context) ([]models.Account, error)
	Forecast(ctx context.Context, accountID string) (models.ForecastResult, error)
}

// Alerter delivers a risk alert to an account owner
type Alerter interface {
	SendRiskAlert(to string, account models.Account, risk models.RiskWindow, tips []models.CoachTip) error
}

// Scheduler runs the risk scan on a cron schedule
type Scheduler struct {
	cron   *cron.Cron
	svc    Forecaster
	alerts Alerter
	log    *logrus.Logger
}

// New registers the scan under spec, a standard five field cron expression
func New(spec string, svc Forecaster, alerts Alerter, log *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		svc:    svc,
		alerts: alerts,
		log:    log,
	}
	if _, err := s.cron.AddFunc(spec, func() { s.Scan(context.Background()) }); err != nil {
		return nil, err
	}
	return s, nil
}

// Start runs the schedule in the background
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Risk alert scheduler started")
}

// Stop halts the schedule and returns a context done when a running scan ends
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Scan forecasts every account and returns how many alerts were sent.
// Failures are logged per account and never stop the scan.
func (s *Scheduler) Scan(ctx context.Context) int {
	accounts, err := s.svc.ListAccounts(ctx)
	if err != nil {
		s.log.Errorf("Risk scan failed to list accounts: %v", err)
		return 0
	}

	sent := 0
	for _, account := range accounts {
		logger := s.log.WithField("account_id", account.ID)
		if account.OwnerEmail == "" {
			logger.Debug("Skipping account without owner email")
			continue
		}
		result, err := s.svc.Forecast(ctx, account.ID)
		if err != nil {
			logger.Warnf("Risk scan failed to forecast: %v", err)
			continue
		}
		if result.Risk == nil {
			continue
		}
		if err := s.alerts.SendRiskAlert(account.OwnerEmail, account, *result.Risk, result.Tips); err != nil {
			logger.Warnf("Risk scan failed to alert: %v", err)
			continue
		}
		sent++
	}
	s.log.WithFields(logrus.Fields{"accounts": len(accounts), "alerts": sent}).Info("Risk scan finished")
	return sent
}
