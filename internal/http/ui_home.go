package httpx

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/target/banksim-ui/internal/ports"
)

// HomeStat is one summary tile on the home page.
type HomeStat struct {
	Title string
	Value int
}

// CustomerSummary totals the signed-in customer's accounts.
type CustomerSummary struct {
	Accounts     int
	TotalBalance decimal.Decimal
}

// Home renders the greeting and, for admins, platform-wide counts.
// GET /.
func (h *UIHandlers) Home(w http.ResponseWriter, r *http.Request) {
	api, ok := h.api(w, r)
	if !ok {
		return
	}
	id := IdentityFromContext(r.Context())

	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Home - BankSim", PageTitle: "Home", CurrentPage: PageHome},
		Fetch: func(ctx context.Context, data map[string]any) error {
			if id != nil && id.Role.IsAdmin() {
				stats, err := adminStats(ctx, api)
				if err != nil {
					// Tiles stay at zero, same as a failed summary fetch in the browser.
					h.logger().InfoContext(ctx, "home stats unavailable", "error", err)
				}
				data["Stats"] = stats
				return nil
			}

			accounts, err := api.MyAccounts(ctx)
			if err != nil {
				h.logger().InfoContext(ctx, "home summary unavailable", "error", err)
				return nil
			}
			summary := CustomerSummary{Accounts: len(accounts)}
			for _, a := range accounts {
				if !a.IsClosed() {
					summary.TotalBalance = summary.TotalBalance.Add(a.Balance)
				}
			}
			data["Summary"] = summary
			return nil
		},
	})
}

// adminStats fetches the three platform counts concurrently. Any failure
// zeroes all three. A plain Group is used so one failure does not cancel the
// other calls already in flight.
func adminStats(ctx context.Context, api ports.BankingAPI) ([]HomeStat, error) {
	var customers, accounts, transactions int

	var g errgroup.Group
	g.Go(func() error {
		list, err := api.AllCustomers(ctx)
		customers = len(list)
		return err
	})
	g.Go(func() error {
		list, err := api.AllAccounts(ctx)
		accounts = len(list)
		return err
	})
	g.Go(func() error {
		list, err := api.AllTransactions(ctx)
		transactions = len(list)
		return err
	})
	if err := g.Wait(); err != nil {
		return homeStats(0, 0, 0), err
	}
	return homeStats(customers, accounts, transactions), nil
}

func homeStats(customers, accounts, transactions int) []HomeStat {
	return []HomeStat{
		{Title: "Total Customers", Value: customers},
		{Title: "Total Accounts", Value: accounts},
		{Title: "Total Transactions", Value: transactions},
	}
}
