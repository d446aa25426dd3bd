// Package core provides the template helpers shared by every page.
package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ecoworth/marketplace-web/internal/domain/listing"
)

// FriendlyDateTimeLayout is the date format shown in tables and cards.
const FriendlyDateTimeLayout = "Jan 2, 2006 3:04 PM"

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"friendlyTime": FriendlyTime,
		"timeTag":      TimeTag,
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"lower":        strings.ToLower,
		"upper":        strings.ToUpper,
		"inr":          listing.FormatINR,
		"qty":          listing.FormatQuantity,
		"decimalValue": DecimalValue,
		"pluralize":    Pluralize,
		"truncateText": TruncateText,
		"dict":         Dict,
		"statusClass":  StatusClass,
	}

	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - rendered by our own html/template set; values were escaped during ExecuteTemplate.
		return template.HTML(buf.String()), nil
	}

	funcs["toJSON"] = func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	return funcs
}

func asTime(ts any) time.Time {
	switch v := ts.(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	}
	return time.Time{}
}

// FriendlyTime formats a time or *time.Time for display; zero and nil render empty.
func FriendlyTime(ts any) string {
	t0 := asTime(ts)
	if t0.IsZero() {
		return ""
	}
	return t0.Local().Format(FriendlyDateTimeLayout)
}

// TimeTag renders a <time> element with a machine-readable datetime attribute.
func TimeTag(ts any) template.HTML {
	t0 := asTime(ts)
	if t0.IsZero() {
		return ""
	}
	// #nosec G203 - built from escaped values only
	return template.HTML(fmt.Sprintf(
		"<time datetime=\"%s\">%s</time>",
		t0.UTC().Format(time.RFC3339),
		template.HTMLEscapeString(t0.Local().Format(FriendlyDateTimeLayout)),
	))
}

// DecimalValue renders a decimal for a form input; zero renders empty so placeholders show.
func DecimalValue(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

// Pluralize returns "1 listing" or "3 listings".
func Pluralize(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return strconv.Itoa(n) + " " + plural
}

// TruncateText truncates a string to n runes, adding an ellipsis when shortened.
func TruncateText(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n > 1 {
		return string(runes[:n-1]) + "…"
	}
	return string(runes[:1])
}

// Dict builds a map from alternating key/value arguments so partials can take several values.
func Dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[key] = kv[i+1]
	}
	return m, nil
}

// StatusClass maps listing, account and licence statuses to badge classes.
func StatusClass(status any) string {
	switch strings.ToLower(strings.TrimSpace(fmt.Sprint(status))) {
	case "active", "approved":
		return "badge-success"
	case "pending":
		return "badge-warning"
	case "sold", "expired":
		return "badge-secondary"
	case "suspended", "rejected":
		return "badge-danger"
	default:
		return "badge-light"
	}
}
