package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/familyfit/familyfit/pkg/domain"
)

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// today returns the local date as YYYY-MM-DD.
func today(now time.Time) string {
	return now.Format("2006-01-02")
}

// parseFoodItems parses "rice 1 bowl, fish 100g" style input. The amount
// starts at the first word beginning with a digit; a ':' separator wins when
// present ("green tea: a cup"). Items without an amount get "1份".
func parseFoodItems(s string) []domain.FoodItem {
	var items []domain.FoodItem
	for _, raw := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '，' || r == ';' }) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		var name, amount string
		if i := strings.IndexAny(raw, ":："); i >= 0 {
			name = strings.TrimSpace(raw[:i])
			_, size := utf8.DecodeRuneInString(raw[i:])
			amount = strings.TrimSpace(raw[i+size:])
		} else {
			fields := strings.Fields(raw)
			cut := len(fields)
			for j := 1; j < len(fields); j++ {
				if c := fields[j][0]; c >= '0' && c <= '9' {
					cut = j
					break
				}
			}
			name = strings.Join(fields[:cut], " ")
			amount = strings.Join(fields[cut:], " ")
		}
		if name == "" {
			continue
		}
		if amount == "" {
			amount = "1份"
		}
		items = append(items, domain.FoodItem{Name: name, Amount: amount})
	}
	return items
}

// formatFoodItems renders items as "name amount, ...".
func formatFoodItems(items []domain.FoodItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, strings.TrimSpace(it.Name+" "+it.Amount))
	}
	return strings.Join(parts, ", ")
}

func optInt(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *p)
}
