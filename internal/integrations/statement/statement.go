// Package statement serves accounts and cash-flow events from an ISO 20022
// camt.053 bank-to-customer statement file.
package statement

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dan9191/cash-coach/internal/integrations/records"
	"github.com/Dan9191/cash-coach/internal/models"
	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

// BillCode is the proprietary bank transaction code that marks a bill
const BillCode = "BILL"

// Provider reads the statement file on every call so edits are picked up
type Provider struct {
	path string
	log  *logrus.Logger
}

// NewProvider initializes a statement provider for the file at path
func NewProvider(path string, log *logrus.Logger) *Provider {
	return &Provider{path: path, log: log}
}

type parsed struct {
	account models.Account
	events  []models.CashFlowEvent
}

func (p *Provider) load() ([]parsed, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(p.path); err != nil {
		return nil, fmt.Errorf("failed to read statement %s: %w", p.path, err)
	}
	return p.parse(doc)
}

func (p *Provider) parse(doc *etree.Document) ([]parsed, error) {
	stmts := doc.FindElements("//BkToCstmrStmt/Stmt")
	if len(stmts) == 0 {
		return nil, fmt.Errorf("no Stmt element found in statement")
	}
	out := make([]parsed, 0, len(stmts))
	for _, stmt := range stmts {
		acc := parseAccount(stmt)
		if acc.ID == "" {
			p.log.Warn("Skipping statement without account identifier")
			continue
		}
		var raws []map[string]any
		for _, ntry := range stmt.SelectElements("Ntry") {
			raws = append(raws, entryRecord(ntry))
		}
		events, rejected := records.NormalizeAll(raws, records.Hints{AccountID: acc.ID})
		for _, err := range rejected {
			p.log.WithField("account_id", acc.ID).Warnf("Skipping statement entry: %v", err)
		}
		out = append(out, parsed{account: acc, events: events})
	}
	return out, nil
}

func text(e *etree.Element, path string) string {
	if found := e.FindElement(path); found != nil {
		return strings.TrimSpace(found.Text())
	}
	return ""
}

func parseAccount(stmt *etree.Element) models.Account {
	acc := models.Account{
		ID:         text(stmt, "Acct/Id/IBAN"),
		Nickname:   text(stmt, "Acct/Nm"),
		Currency:   text(stmt, "Acct/Ccy"),
		CustomerID: text(stmt, "Acct/Ownr/Id/PrvtId/Othr/Id"),
		OwnerEmail: text(stmt, "Acct/Ownr/CtctDtls/EmailAdr"),
	}
	if acc.ID == "" {
		acc.ID = text(stmt, "Acct/Id/Othr/Id")
	}
	if acc.CustomerID == "" {
		acc.CustomerID = text(stmt, "Acct/Ownr/Nm")
	}
	if bal, ok := balance(stmt, "CLBD"); ok {
		acc.Balance = &bal
	} else if bal, ok := balance(stmt, "OPBD"); ok {
		acc.Balance = &bal
	}
	return acc
}

// balance returns the signed amount of the balance with the given type code
func balance(stmt *etree.Element, code string) (float64, bool) {
	for _, bal := range stmt.SelectElements("Bal") {
		if text(bal, "Tp/CdOrPrtry/Cd") != code {
			continue
		}
		v, err := strconv.ParseFloat(text(bal, "Amt"), 64)
		if err != nil {
			return 0, false
		}
		if text(bal, "CdtDbtInd") == "DBIT" {
			v = -v
		}
		return v, true
	}
	return 0, false
}

func entryRecord(ntry *etree.Element) map[string]any {
	raw := map[string]any{
		"id":   text(ntry, "NtryRef"),
		"kind": text(ntry, "CdtDbtInd"),
	}
	if amt := text(ntry, "Amt"); amt != "" {
		raw["amount"] = amt
	}
	date := text(ntry, "BookgDt/Dt")
	if date == "" {
		date = text(ntry, "BookgDt/DtTm")
	}
	if date == "" {
		date = text(ntry, "ValDt/Dt")
	}
	raw["date"] = date

	desc := text(ntry, "AddtlNtryInf")
	if desc == "" {
		desc = text(ntry, "NtryDtls/TxDtls/RmtInf/Ustrd")
	}
	raw["description"] = desc
	raw["is_bill"] = text(ntry, "BkTxCd/Prtry/Cd") == BillCode
	return raw
}

// ListAccounts returns every account in the statement, filtered by owner
// when customerID is set
func (p *Provider) ListAccounts(_ context.Context, customerID string) ([]models.Account, error) {
	stmts, err := p.load()
	if err != nil {
		return nil, err
	}
	accounts := make([]models.Account, 0, len(stmts))
	for _, s := range stmts {
		if customerID != "" && s.account.CustomerID != customerID {
			continue
		}
		accounts = append(accounts, s.account)
	}
	return accounts, nil
}

// GetAccount returns the account with the given identifier
func (p *Provider) GetAccount(_ context.Context, id string) (*models.Account, error) {
	stmts, err := p.load()
	if err != nil {
		return nil, err
	}
	for _, s := range stmts {
		if s.account.ID == id {
			acc := s.account
			return &acc, nil
		}
	}
	return nil, fmt.Errorf("account %s: %w", id, models.ErrNotFound)
}

// ListEvents returns the entries booked on an account
func (p *Provider) ListEvents(_ context.Context, accountID string) ([]models.CashFlowEvent, error) {
	stmts, err := p.load()
	if err != nil {
		return nil, err
	}
	for _, s := range stmts {
		if s.account.ID == accountID {
			return s.events, nil
		}
	}
	return nil, fmt.Errorf("account %s: %w", accountID, models.ErrNotFound)
}
