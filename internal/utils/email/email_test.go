package email

import (
	"errors"
	"io"
	"net/smtp"
	"testing"

	"github.com/Dan9191/cash-coach/internal/config"
	"github.com/Dan9191/cash-coach/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSender(send sendFunc) *Sender {
	log := logrus.New()
	log.SetOutput(io.Discard)
	s := NewSender(&config.Config{SMTPHost: "mail.test", SMTPPort: "2525", SenderEmail: "coach@bank.local"}, log)
	s.send = send
	return s
}

func TestSendRiskAlert(t *testing.T) {
	var (
		sent *email.Email
		addr string
	)
	s := testSender(func(e *email.Email, a string, auth smtp.Auth) error {
		sent, addr = e, a
		assert.Nil(t, auth)
		return nil
	})

	tips := []models.CoachTip{
		{Title: "Stay-Positive Plan", Detail: "Delay and split bills", Impact: "Avoid overdraft"},
		{Title: "Trim subscriptions", Detail: "Netflix", Impact: "+$15"},
		{Title: "Auto-save", Detail: "Move $50", Impact: "+$50"},
	}
	err := s.SendRiskAlert("jo@example.com", models.Account{ID: "acc_1", Nickname: "Checking"},
		models.RiskWindow{From: "2024-01-05", To: "2024-01-09", Min: -1200}, tips)
	require.NoError(t, err)

	require.NotNil(t, sent)
	assert.Equal(t, "mail.test:2525", addr)
	assert.Equal(t, []string{"jo@example.com"}, sent.To)
	assert.Equal(t, "Heads up: Checking may dip below zero on 2024-01-05", sent.Subject)
	body := string(sent.Text)
	assert.Contains(t, body, "from 2024-01-05 to 2024-01-09, reaching -$1,200")
	assert.Contains(t, body, "Trim subscriptions")
	assert.NotContains(t, body, "Auto-save")
}

func TestSendRiskAlert_Failure(t *testing.T) {
	s := testSender(func(*email.Email, string, smtp.Auth) error { return errors.New("connection refused") })

	err := s.SendRiskAlert("jo@example.com", models.Account{ID: "acc_1"}, models.RiskWindow{From: "2024-01-05"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send risk alert")
}
