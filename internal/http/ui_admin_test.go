package httpx

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/banksim-ui/internal/domain/banking"
	"github.com/target/banksim-ui/internal/mocks/bank"
)

func adminApp(t *testing.T) (*testApp, *bank.Fake) {
	t.Helper()
	fake := bank.NewFake()
	fake.SignIn(adminIdentity())
	fake.SetCustomers(
		banking.Customer{CustomerID: 7, Name: "Asha Rao", Email: "asha@banksim.test", Status: "ACTIVE"},
		banking.Customer{CustomerID: 11, Name: "Ravi Kumar", Email: "ravi@banksim.test", Status: "ACTIVE"},
	)
	fake.SetAccounts(
		banking.Account{AccountNumber: "SB1001", CustomerID: 11, Balance: decimal.RequireFromString("1500"), Status: "ACTIVE"},
	)
	fake.SetTransactions(banking.Transaction{
		TransactionID: 31, SenderAccountNumber: "SB1001", ReceiverAccountNumber: "SB3003",
		Amount: decimal.RequireFromString("20"), TransactionMode: "NEFT", Status: "SUCCESS",
	})
	return newTestApp(t, fake), fake
}

func TestAdminAccounts(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		want     []string
		notWant  []string
		wantCall string
	}{
		{name: "list", path: "/admin/accounts", want: []string{"SB1001", "1 account found"}, wantCall: "AllAccounts"},
		{name: "find form only", path: "/admin/accounts?op=find", notWant: []string{MsgAccountNumberNeeded}},
		{name: "find empty", path: "/admin/accounts?op=find&accountNumber=", want: []string{MsgAccountNumberNeeded}},
		{name: "find details", path: "/admin/accounts?op=find&accountNumber=SB1001", want: []string{"Customer ID", "₹1,500.00"}, wantCall: "AccountDetails"},
		{name: "find balance", path: "/admin/accounts?op=find&lookup=balance&accountNumber=SB1001", want: []string{"Balance for", "₹1,500.00"}, wantCall: "AccountBalance"},
		{name: "find missing", path: "/admin/accounts?op=find&accountNumber=NOPE", want: []string{"Account not found"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, fake := adminApp(t)

			resp, body := app.get(tt.path)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			for _, want := range tt.want {
				assert.Contains(t, body, want)
			}
			for _, nw := range tt.notWant {
				assert.NotContains(t, body, nw)
			}
			if tt.wantCall != "" {
				assert.Equal(t, 1, fake.CallCount(tt.wantCall))
			}
		})
	}
}

func TestAdminCloseAccount(t *testing.T) {
	app, fake := adminApp(t)

	resp, body := app.postForm("/admin/accounts/close", url.Values{"accountNumber": {"SB1001"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Account closed successfully")
	assert.Contains(t, body, "CLOSED")
	assert.Equal(t, 1, fake.CallCount("CloseAccount"))

	_, body = app.postForm("/admin/accounts/close", url.Values{"accountNumber": {""}})
	assert.Contains(t, body, MsgAccountNumberNeeded)
	assert.Equal(t, 1, fake.CallCount("CloseAccount"))
}

func TestAdminCustomers(t *testing.T) {
	app, _ := adminApp(t)

	_, body := app.get("/admin/customers")
	assert.True(t, ContainsAll(body, []string{"asha@banksim.test", "ravi@banksim.test", "2 customers found"}))

	_, body = app.get("/admin/customers?op=find&customerId=11")
	assert.Contains(t, body, "Ravi Kumar")

	_, body = app.get("/admin/customers?op=find&customerId=abc")
	assert.Contains(t, body, MsgCustomerNotFound)

	_, body = app.get("/admin/customers?op=find&customerId=")
	assert.Contains(t, body, MsgCustomerIDRequired)

	_, body = app.get("/admin/customers?op=update&customerId=11")
	assert.Contains(t, body, `action="/admin/customers/update"`)
}

func TestAdminUpdateCustomer_PatchesOwnIdentity(t *testing.T) {
	app, _ := adminApp(t)

	resp, body := app.postForm("/admin/customers/update", url.Values{
		"customerId":  {"7"},
		"name":        {"Asha R. Menon"},
		"email":       {"asha@banksim.test"},
		"phoneNumber": {"9000000000"},
		"address":     {"Kochi"},
		"status":      {"active"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Customer updated successfully")

	_, body = app.get("/profile")
	assert.Contains(t, body, "Asha R. Menon")
}

func TestAdminUpdateCustomer_OtherCustomerLeavesIdentity(t *testing.T) {
	app, _ := adminApp(t)

	_, body := app.postForm("/admin/customers/update", url.Values{
		"customerId": {"11"},
		"name":       {"Ravi K"},
		"email":      {"ravi@banksim.test"},
	})
	assert.Contains(t, body, "Customer updated successfully")

	_, body = app.get("/profile")
	assert.Contains(t, body, "Asha Rao")
	assert.NotContains(t, body, "Ravi K<")
}

func TestAdminTransactions(t *testing.T) {
	app, fake := adminApp(t)

	_, body := app.get("/admin/transactions")
	assert.Contains(t, body, "SB3003")

	_, body = app.get("/admin/transactions?op=find&transactionId=31")
	assert.Contains(t, body, "NEFT")

	_, body = app.get("/admin/transactions?op=find&transactionId=99")
	assert.Contains(t, body, "Transaction not found")

	_, body = app.get("/admin/transactions?op=export")
	assert.Contains(t, body, `action="/admin/transactions/export"`)

	fake.SetCSV("SB1001", banking.CSVPayload{Data: []byte("a,b\n")})
	resp, body := app.get("/admin/transactions/export?accountNumber=SB1001")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "a,b\n", body)

	_, body = app.get("/admin/transactions/export?accountNumber=")
	assert.Contains(t, body, `action="/admin/transactions/export"`, "failure re-renders the admin export tab")
}
