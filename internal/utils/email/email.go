package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Dan9191/cash-coach/internal/config"
	"github.com/Dan9191/cash-coach/internal/forecast"
	"github.com/Dan9191/cash-coach/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// maxAlertTips caps how many coach tips go into one alert
const maxAlertTips = 2

type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   sendFunc
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// riskAlert builds the message for an account heading below zero
func (s *Sender) riskAlert(to string, account models.Account, risk models.RiskWindow, tips []models.CoachTip) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Heads up: %s may dip below zero on %s", accountName(account), risk.From)

	var body strings.Builder
	fmt.Fprintf(&body, "Hi,\n\n")
	fmt.Fprintf(&body, "Your %s balance is projected to go negative from %s to %s, reaching %s at its lowest.\n",
		accountName(account), risk.From, risk.To, forecast.FormatMoney(risk.Min))

	if len(tips) > maxAlertTips {
		tips = tips[:maxAlertTips]
	}
	if len(tips) > 0 {
		body.WriteString("\nA few ideas from your cash coach:\n")
		for _, tip := range tips {
			fmt.Fprintf(&body, "  - %s: %s (%s)\n", tip.Title, tip.Detail, tip.Impact)
		}
	}
	body.WriteString("\nBest regards,\nCash Coach")
	e.Text = []byte(body.String())
	return e
}

func accountName(a models.Account) string {
	if a.Nickname != "" {
		return a.Nickname
	}
	return "account " + a.ID
}

// SendRiskAlert emails the account owner about a projected overdraft
func (s *Sender) SendRiskAlert(to string, account models.Account, risk models.RiskWindow, tips []models.CoachTip) error {
	e := s.riskAlert(to, account, risk, tips)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send risk alert to %s: %v", to, err)
		return fmt.Errorf("failed to send risk alert: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
