// Package nessie reads accounts and cash-flow records from a Nessie style
// banking sandbox API.
package nessie

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Dan9191/cash-coach/internal/integrations/records"
	"github.com/Dan9191/cash-coach/internal/models"
	"github.com/sirupsen/logrus"
)

// Modes select which family of endpoints is used
const (
	ModeCustomer   = "customer"
	ModeEnterprise = "enterprise"
)

// Config describes how to reach the API
type Config struct {
	BaseURL    string
	Key        string
	Mode       string
	CustomerID string
	Timeout    time.Duration
}

// Client talks to the Nessie API
type Client struct {
	cfg    Config
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new Nessie client
func NewClient(cfg Config, log *logrus.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeCustomer
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

// NewClientWithHTTP lets tests substitute the transport
func NewClientWithHTTP(cfg Config, httpClient *http.Client, log *logrus.Logger) *Client {
	c := NewClient(cfg, log)
	c.client = httpClient
	return c
}

func (c *Client) enterprise() bool {
	return c.cfg.Mode == ModeEnterprise
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (any, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("key", c.cfg.Key)
	endpoint := c.cfg.BaseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("GET %s: %w", path, models.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, fmt.Errorf("GET %s: unexpected status code %d: %s", path, resp.StatusCode, snippet)
	}

	var out any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	c.log.Debugf("Nessie GET %s returned %d bytes", path, len(body))
	return out, nil
}

// unwrap accepts a bare array or an object wrapping one in results or data
func unwrap(v any) []map[string]any {
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case map[string]any:
		if r, ok := t["results"].([]any); ok {
			items = r
		} else if d, ok := t["data"].([]any); ok {
			items = d
		}
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func toAccount(raw map[string]any) models.Account {
	acc := models.Account{Currency: "USD"}
	if id, ok := raw["_id"].(string); ok {
		acc.ID = id
	} else if id, ok := raw["id"].(string); ok {
		acc.ID = id
	}
	acc.CustomerID, _ = raw["customer_id"].(string)
	acc.Nickname, _ = raw["nickname"].(string)
	if n, ok := raw["balance"].(json.Number); ok {
		if f, err := n.Float64(); err == nil {
			acc.Balance = &f
		}
	}
	return acc
}

// ListAccounts returns the accounts of a customer, or all accounts in
// enterprise mode when customerID is empty
func (c *Client) ListAccounts(ctx context.Context, customerID string) ([]models.Account, error) {
	if customerID == "" {
		customerID = c.cfg.CustomerID
	}
	var path string
	switch {
	case c.enterprise():
		path = "/enterprise/accounts"
	case customerID != "":
		path = "/customers/" + url.PathEscape(customerID) + "/accounts"
	default:
		path = "/accounts"
	}
	raw, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	accounts := make([]models.Account, 0)
	for _, item := range unwrap(raw) {
		acc := toAccount(item)
		if c.enterprise() && customerID != "" && acc.CustomerID != customerID {
			continue
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// GetAccount fetches a single account
func (c *Client) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	path := "/accounts/" + url.PathEscape(id)
	if c.enterprise() {
		path = "/enterprise" + path
	}
	raw, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("GET %s: unexpected payload", path)
	}
	acc := toAccount(obj)
	if acc.ID == "" {
		acc.ID = id
	}
	return &acc, nil
}

type stream struct {
	paths []string // tried in order until one answers
	hints records.Hints
}

func (c *Client) streams(accountID string) []stream {
	if c.enterprise() {
		return []stream{
			{
				paths: []string{"/enterprise/purchases", "/enterprise/transactions", "/enterprise/withdrawals"},
				hints: records.Hints{AccountID: accountID, Kind: models.KindExpense},
			},
			{paths: []string{"/enterprise/deposits"}, hints: records.Hints{AccountID: accountID, Kind: models.KindIncome}},
			{paths: []string{"/enterprise/bills"}, hints: records.Hints{AccountID: accountID, Kind: models.KindExpense, IsBill: true}},
		}
	}
	base := "/accounts/" + url.PathEscape(accountID)
	return []stream{
		{paths: []string{base + "/purchases"}, hints: records.Hints{AccountID: accountID, Kind: models.KindExpense}},
		{paths: []string{base + "/deposits"}, hints: records.Hints{AccountID: accountID, Kind: models.KindIncome}},
		{paths: []string{base + "/bills"}, hints: records.Hints{AccountID: accountID, Kind: models.KindExpense, IsBill: true}},
	}
}

// ListEvents gathers purchases, deposits and bills for an account. A
// failing stream is logged and skipped; an error is returned only when
// every stream fails.
func (c *Client) ListEvents(ctx context.Context, accountID string) ([]models.CashFlowEvent, error) {
	var params url.Values
	if c.enterprise() {
		params = url.Values{"account_id": {accountID}}
	}

	var (
		events  []models.CashFlowEvent
		lastErr error
		ok      int
	)
	for _, s := range c.streams(accountID) {
		raws, path, err := c.firstAvailable(ctx, s.paths, params)
		if err != nil {
			c.log.WithFields(logrus.Fields{"account_id": accountID, "path": s.paths[0]}).Warnf("Nessie stream unavailable: %v", err)
			lastErr = err
			continue
		}
		ok++
		hints := s.hints
		// fallback streams carry no reliable timing
		hints.Undated = path != s.paths[0]
		normalized, rejected := records.NormalizeAll(raws, hints)
		for _, r := range rejected {
			c.log.WithField("path", path).Warnf("Skipping Nessie record: %v", r)
		}
		events = append(events, normalized...)
	}
	if ok == 0 && lastErr != nil {
		return nil, fmt.Errorf("failed to fetch events for account %s: %w", accountID, lastErr)
	}
	return events, nil
}

func (c *Client) firstAvailable(ctx context.Context, paths []string, params url.Values) ([]map[string]any, string, error) {
	var lastErr error
	for _, p := range paths {
		raw, err := c.get(ctx, p, cloneValues(params))
		if err != nil {
			lastErr = err
			continue
		}
		items := unwrap(raw)
		if len(items) == 0 && p != paths[len(paths)-1] {
			continue
		}
		return items, p, nil
	}
	return nil, "", lastErr
}

func cloneValues(v url.Values) url.Values {
	out := url.Values{}
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
