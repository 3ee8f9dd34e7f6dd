package statement

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dan9191/cash-coach/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const camt053 = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <GrpHdr><MsgId>MSG-1</MsgId></GrpHdr>
    <Stmt>
      <Id>STMT-1</Id>
      <Acct>
        <Id><IBAN>DE89370400440532013000</IBAN></Id>
        <Ccy>USD</Ccy>
        <Nm>Everyday Checking</Nm>
        <Ownr>
          <Nm>Jordan Doe</Nm>
          <Id><PrvtId><Othr><Id>cust-7</Id></Othr></PrvtId></Id>
          <CtctDtls><EmailAdr>jordan@example.com</EmailAdr></CtctDtls>
        </Ownr>
      </Acct>
      <Bal>
        <Tp><CdOrPrtry><Cd>OPBD</Cd></CdOrPrtry></Tp>
        <Amt Ccy="USD">900.00</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
      </Bal>
      <Bal>
        <Tp><CdOrPrtry><Cd>CLBD</Cd></CdOrPrtry></Tp>
        <Amt Ccy="USD">1000.00</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
      </Bal>
      <Ntry>
        <NtryRef>E1</NtryRef>
        <Amt Ccy="USD">1200.00</Amt>
        <CdtDbtInd>DBIT</CdtDbtInd>
        <BookgDt><Dt>2024-01-01</Dt></BookgDt>
        <BkTxCd><Prtry><Cd>BILL</Cd></Prtry></BkTxCd>
        <AddtlNtryInf>Rent</AddtlNtryInf>
      </Ntry>
      <Ntry>
        <NtryRef>E2</NtryRef>
        <Amt Ccy="USD">2500.00</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
        <BookgDt><DtTm>2024-01-15T09:30:00</DtTm></BookgDt>
        <NtryDtls><TxDtls><RmtInf><Ustrd>ACME PAYROLL</Ustrd></RmtInf></TxDtls></NtryDtls>
      </Ntry>
      <Ntry>
        <NtryRef>E3</NtryRef>
        <CdtDbtInd>DBIT</CdtDbtInd>
        <BookgDt><Dt>2024-01-16</Dt></BookgDt>
      </Ntry>
    </Stmt>
    <Stmt>
      <Acct>
        <Id><Othr><Id>SAV-2</Id></Othr></Id>
        <Ownr><Nm>Sam Roe</Nm></Ownr>
      </Acct>
      <Bal>
        <Tp><CdOrPrtry><Cd>OPBD</Cd></CdOrPrtry></Tp>
        <Amt Ccy="USD">50.00</Amt>
        <CdtDbtInd>DBIT</CdtDbtInd>
      </Bal>
    </Stmt>
  </BkToCstmrStmt>
</Document>`

func writeStatement(t *testing.T, body string) *Provider {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statement.xml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewProvider(path, log)
}

func TestListAccounts(t *testing.T) {
	p := writeStatement(t, camt053)

	accounts, err := p.ListAccounts(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	checking := accounts[0]
	assert.Equal(t, "DE89370400440532013000", checking.ID)
	assert.Equal(t, "Everyday Checking", checking.Nickname)
	assert.Equal(t, "cust-7", checking.CustomerID)
	assert.Equal(t, "jordan@example.com", checking.OwnerEmail)
	require.NotNil(t, checking.Balance)
	assert.Equal(t, 1000.0, *checking.Balance, "closing balance is preferred")

	savings := accounts[1]
	assert.Equal(t, "SAV-2", savings.ID)
	assert.Equal(t, "Sam Roe", savings.CustomerID)
	require.NotNil(t, savings.Balance)
	assert.Equal(t, -50.0, *savings.Balance)

	mine, err := p.ListAccounts(context.Background(), "cust-7")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestGetAccount(t *testing.T) {
	p := writeStatement(t, camt053)

	acc, err := p.GetAccount(context.Background(), "SAV-2")
	require.NoError(t, err)
	assert.Equal(t, "SAV-2", acc.ID)

	_, err = p.GetAccount(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListEvents(t *testing.T) {
	p := writeStatement(t, camt053)

	events, err := p.ListEvents(context.Background(), "DE89370400440532013000")
	require.NoError(t, err)
	require.Len(t, events, 2, "entry without an amount is rejected")

	assert.Equal(t, models.CashFlowEvent{
		ID: "E1", AccountID: "DE89370400440532013000", Amount: 1200, Date: "2024-01-01",
		Kind: models.KindExpense, Description: "Rent", IsBill: true,
	}, events[0])
	assert.Equal(t, models.KindIncome, events[1].Kind)
	assert.Equal(t, "2024-01-15", events[1].Date)
	assert.Equal(t, "ACME PAYROLL", events[1].Description)
	assert.False(t, events[1].IsBill)
}

func TestLoadErrors(t *testing.T) {
	missing := NewProvider(filepath.Join(t.TempDir(), "absent.xml"), logrus.New())
	_, err := missing.ListAccounts(context.Background(), "")
	assert.Error(t, err)

	empty := writeStatement(t, `<Document><BkToCstmrStmt/></Document>`)
	_, err = empty.ListEvents(context.Background(), "x")
	assert.ErrorContains(t, err, "no Stmt element")
}
