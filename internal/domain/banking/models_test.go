package banking

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStamp_UnmarshalJSON(t *testing.T) {
	want := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{name: "local date time", in: `"2024-05-06T07:08:09"`, want: want},
		{name: "fractional seconds", in: `"2024-05-06T07:08:09.000"`, want: want},
		{name: "array", in: `[2024,5,6,7,8,9]`, want: want},
		{name: "date only array", in: `[2024,5,6]`, want: time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)},
		{name: "epoch millis", in: `1714979289000`, want: want},
		{name: "null", in: `null`, want: time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Stamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &s))
			assert.True(t, tt.want.Equal(s.Time), "got %v", s.Time)
		})
	}
}

func TestStamp_Rejects(t *testing.T) {
	var s Stamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &s))
	assert.Error(t, json.Unmarshal([]byte(`[2024]`), &s))
	assert.Error(t, json.Unmarshal([]byte(`true`), &s))
}

func TestAccount_Decode(t *testing.T) {
	body := `{"accountId":3,"customerId":7,"balance":1500.75,"accountType":"SAVINGS",
		"accountNumber":"ACC100","status":"CLOSED","ifscCode":"BANK0001","createdAt":"2024-01-02T03:04:05"}`

	var a Account
	require.NoError(t, json.Unmarshal([]byte(body), &a))
	assert.True(t, a.Balance.Equal(decimal.RequireFromString("1500.75")))
	assert.True(t, a.IsClosed())
	assert.Equal(t, "2024-01-02 03:04:05", a.CreatedAt.String())
}

func TestOpenAccountRequest_Normalize(t *testing.T) {
	r := OpenAccountRequest{AccountName: " Rainy day ", IFSCCode: "bank0001"}
	r.Normalize()
	assert.Equal(t, AccountTypeSavings, r.AccountType)
	assert.Equal(t, "Rainy day", r.AccountName)
	assert.Equal(t, "BANK0001", r.IFSCCode)

	r.Balance = decimal.NewFromInt(500)
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"accountType":"SAVINGS","accountName":"Rainy day","balance":500,"ifscCode":"BANK0001"}`, string(b))
}

func TestSignupProfile_Normalize(t *testing.T) {
	p := SignupProfile{Name: " Ravi ", Status: "active"}
	p.Normalize()
	assert.Equal(t, "Ravi", p.Name)
	assert.Equal(t, "ACTIVE", p.Status)

	p = SignupProfile{}
	p.Normalize()
	assert.Equal(t, "ACTIVE", p.Status)
}
