package core

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/target/banksim-ui/internal/domain/banking"
	"github.com/target/banksim-ui/internal/http/uiutil"
)

// CurrencySymbol prefixes every rendered amount.
const CurrencySymbol = "₹"

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	funcs := template.FuncMap{
		"friendlyTime": createFriendlyTimeFunc(),
		"timeTag":      createTimeTagFunc(),
		"formatNumber": formatNumberTemplate,
		"formatMoney":  FormatMoney,
		"statusClass":  statusClass,
		"initials":     Initials,
		"truncateText": TruncateText,
		"plural":       Plural,
	}

	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - rendered by our own html/template set; user values were escaped above.
		return template.HTML(buf.String()), nil
	}
}

func toTime(ts any) time.Time {
	switch v := ts.(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	case banking.Stamp:
		return v.Time
	case *banking.Stamp:
		if v != nil {
			return v.Time
		}
	}
	return time.Time{}
}

func createFriendlyTimeFunc() func(any) string {
	return func(ts any) string {
		t0 := toTime(ts)
		if t0.IsZero() {
			return ""
		}
		return uiutil.FormatFriendlyDateTime(t0)
	}
}

func createTimeTagFunc() func(any) template.HTML {
	return func(ts any) template.HTML {
		t0 := toTime(ts)
		if t0.IsZero() {
			return ""
		}
		// #nosec G203 - constructed from escaped values only
		return template.HTML(
			fmt.Sprintf(
				"<time datetime=\"%s\" title=\"%s\">%s</time>",
				t0.UTC().Format(time.RFC3339),
				template.HTMLEscapeString(uiutil.FriendlyRelativeTime(t0)),
				template.HTMLEscapeString(uiutil.FormatFriendlyDateTime(t0)),
			),
		)
	}
}

// FormatMoney renders an amount with two decimals, thousands separators and
// the currency symbol. Unsupported values render empty.
func FormatMoney(v any) string {
	var d decimal.Decimal
	switch x := v.(type) {
	case decimal.Decimal:
		d = x
	case *decimal.Decimal:
		if x == nil {
			return ""
		}
		d = *x
	case int:
		d = decimal.NewFromInt(int64(x))
	case int64:
		d = decimal.NewFromInt(x)
	case float64:
		d = decimal.NewFromFloat(x)
	default:
		return ""
	}

	fixed := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	if len(whole) > 3 {
		whole = formatWithCommas(whole, false)
	}
	out := CurrencySymbol + whole + "." + frac
	if d.IsNegative() {
		return "-" + out
	}
	return out
}

// formatNumberTemplate formats an integer with comma separators for thousands.
func formatNumberTemplate(v any) string {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	case int32:
		n = int64(x)
	default:
		return fmt.Sprint(v)
	}

	neg := n < 0
	var s string
	if neg {
		s = strconv.FormatUint(uint64(-n), 10)
	} else {
		s = strconv.FormatInt(n, 10)
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	return formatWithCommas(s, neg)
}

// formatWithCommas formats a numeric string with comma separators.
func formatWithCommas(s string, neg bool) string {
	var b strings.Builder
	b.Grow(len(s) + (len(s)-1)/3)

	prefix := len(s) % 3
	if prefix == 0 {
		prefix = 3
	}

	b.WriteString(s[:prefix])
	for i := prefix; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// statusClass maps backend account, customer and transaction statuses to badges.
func statusClass(status string) string {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "ACTIVE", "SUCCESS", "COMPLETED":
		return "badge-success"
	case "PENDING":
		return "badge-warning"
	case "CLOSED", "INACTIVE", "FAILED", "BLOCKED":
		return "badge-danger"
	default:
		return "badge-light"
	}
}

// Initials returns up to two upper-case initials of a display name.
func Initials(name string) string {
	var out []rune
	for _, part := range strings.Fields(name) {
		for _, r := range part {
			out = append(out, []rune(strings.ToUpper(string(r)))...)
			break
		}
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

// Plural returns singular when n is 1 and singular+"s" otherwise.
func Plural(n int, singular string) string {
	if n == 1 {
		return singular
	}
	return singular + "s"
}

// TruncateText truncates a string to a maximum number of runes (not bytes).
func TruncateText(s string, maxLen int) string {
	return uiutil.TruncateWithEllipsis(s, maxLen)
}
