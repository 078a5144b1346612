package httpx

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/banksim-ui/internal/domain/banking"
	"github.com/target/banksim-ui/internal/mocks/bank"
)

func profileApp(t *testing.T) (*testApp, *bank.Fake) {
	t.Helper()
	fake := bank.NewFake()
	id := customerIdentity()
	id.Address = "Pune"
	fake.SignIn(id)
	fake.SetCustomers(banking.Customer{CustomerID: id.ID, Name: id.Name, Email: id.Email, Address: id.Address})
	return newTestApp(t, fake), fake
}

func TestProfile_ShowsCachedIdentity(t *testing.T) {
	app, fake := profileApp(t)

	resp, body := app.get("/profile")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, ContainsAll(body, []string{"Ravi Kumar", "ravi@banksim.test", "Pune", "CUSTOMER"}))
	assert.Zero(t, fake.CallCount("CustomerByID"), "profile reads the session, not the backend")
}

func TestUpdateProfile(t *testing.T) {
	t.Run("success patches identity without a re-read", func(t *testing.T) {
		app, fake := profileApp(t)

		resp, body := app.postForm("/profile", url.Values{
			"name":        {"Ravi Shankar"},
			"email":       {"ravi@banksim.test"},
			"phoneNumber": {"9123456780"},
			"address":     {"Mumbai"},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "Customer updated successfully")
		assert.Contains(t, body, "Mumbai")

		_, body = app.get("/")
		assert.Contains(t, body, "Ravi Shankar")
		assert.Equal(t, 1, fake.CallCount("WhoAmI"))
	})

	t.Run("failure keeps the draft and the cached identity", func(t *testing.T) {
		app, fake := profileApp(t)
		app.get("/profile")
		fake.FailWith("UpdateCustomer", errors.New("down"))

		_, body := app.postForm("/profile", url.Values{"name": {"Draft Name"}, "email": {"ravi@banksim.test"}})
		assert.Contains(t, body, MsgProfileUpdateFailed)
		assert.Contains(t, body, `value="Draft Name"`)

		_, body = app.get("/")
		assert.Contains(t, body, "Ravi Kumar")
	})
}
