package core

import (
	"bytes"
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/banksim-ui/internal/domain/banking"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{decimal.RequireFromString("1234.5"), "₹1,234.50"},
		{decimal.RequireFromString("0"), "₹0.00"},
		{decimal.RequireFromString("-25.125"), "-₹25.13"},
		{decimal.RequireFromString("1000000"), "₹1,000,000.00"},
		{42, "₹42.00"},
		{int64(999), "₹999.00"},
		{"not money", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMoney(tt.in), "%v", tt.in)
	}

	var nilDec *decimal.Decimal
	assert.Empty(t, FormatMoney(nilDec))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "7", formatNumberTemplate(7))
	assert.Equal(t, "12,345", formatNumberTemplate(12345))
	assert.Equal(t, "-1,000", formatNumberTemplate(int64(-1000)))
	assert.Equal(t, "x", formatNumberTemplate("x"))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "badge-success", statusClass("active"))
	assert.Equal(t, "badge-success", statusClass(" SUCCESS "))
	assert.Equal(t, "badge-warning", statusClass("PENDING"))
	assert.Equal(t, "badge-danger", statusClass("CLOSED"))
	assert.Equal(t, "badge-light", statusClass(""))
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "AR", Initials("asha rao"))
	assert.Equal(t, "AR", Initials("Asha Rao Menon"))
	assert.Equal(t, "M", Initials("meera"))
	assert.Equal(t, "?", Initials("  "))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "account", Plural(1, "account"))
	assert.Equal(t, "accounts", Plural(0, "account"))
	assert.Equal(t, "accounts", Plural(3, "account"))
}

func TestTimeFuncsAcceptStamps(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)
	friendly := createFriendlyTimeFunc()
	tag := createTimeTagFunc()

	assert.Equal(t, "Mar 9, 2024 2:05 PM", friendly(banking.Stamp{Time: ts}))
	assert.Equal(t, "Mar 9, 2024 2:05 PM", friendly(&ts))
	assert.Empty(t, friendly(banking.Stamp{}))
	assert.Empty(t, friendly("2024-03-09"))

	html := string(tag(banking.Stamp{Time: ts}))
	assert.Contains(t, html, `datetime="2024-03-09T14:05:00Z"`)
	assert.Contains(t, html, ">Mar 9, 2024 2:05 PM</time>")
	assert.Empty(t, tag(nil))
}

func TestRenderSection(t *testing.T) {
	var tmpl *template.Template
	funcs := Funcs(Deps{
		Template:           &tmpl,
		ContentTemplateFor: func(page string) string { return page + "-content" },
	})
	tmpl = template.Must(template.New("layout").Funcs(funcs).Parse(
		`<main>{{renderSection .Page .}}</main>{{define "home-content"}}<p>{{.Name}}</p>{{end}}`,
	))

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "layout", map[string]any{"Page": "home", "Name": "<Ravi>"}))
	assert.Equal(t, "<main><p>&lt;Ravi&gt;</p></main>", buf.String())

	buf.Reset()
	err := tmpl.ExecuteTemplate(&buf, "layout", map[string]any{"Page": "missing"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "missing-content"))
}

func TestRenderSection_Uninitialized(t *testing.T) {
	funcs := Funcs(Deps{ContentTemplateFor: func(p string) string { return p }})
	render := funcs["renderSection"].(func(string, any) (template.HTML, error))
	_, err := render("home", nil)
	assert.Error(t, err)
}

func TestFuncs_Names(t *testing.T) {
	funcs := Funcs(Deps{})
	names := make([]string, 0, len(funcs))
	for name := range funcs {
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{
		"friendlyTime", "timeTag", "formatNumber", "formatMoney", "statusClass",
		"initials", "truncateText", "plural", "renderSection",
	}, names)
}
