package sections

import (
	"fmt"
	"sort"
	"strings"
)

// Formatter turns a structured answer payload into preview markdown. It
// must be pure: equal input always yields equal output, and absent or
// empty fields produce no heading at all.
type Formatter func(data map[string]any) string

// Field names one structured answer field and the markdown heading it is
// rendered under. Order in the Config's Fields slice is render order.
type Field struct {
	Key     string
	Heading string
}

// fieldsFormatter builds the default formatter used by most sections: one
// "## Heading" block per populated field, in declared order.
func fieldsFormatter(fields []Field) Formatter {
	return func(data map[string]any) string {
		var b strings.Builder

		for _, f := range fields {
			value, ok := data[f.Key]
			if !ok {
				continue
			}

			rendered := renderValue(value)
			if rendered == "" {
				continue
			}

			b.WriteString("## ")
			b.WriteString(f.Heading)
			b.WriteString("\n\n")
			b.WriteString(rendered)
			b.WriteString("\n\n")
		}

		return strings.TrimRight(b.String(), "\n")
	}
}

// renderValue flattens a payload value into markdown. Lists become bullet
// points, maps become "key: value" lines sorted by key for determinism,
// everything else is printed as-is. Empty values render as "".
func renderValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []any:
		var lines []string

		for _, item := range v {
			rendered := renderValue(item)
			if rendered == "" {
				continue
			}

			lines = append(lines, "- "+rendered)
		}

		return strings.Join(lines, "\n")
	case []string:
		var lines []string

		for _, item := range v {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}

			lines = append(lines, "- "+item)
		}

		return strings.Join(lines, "\n")
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		var lines []string

		for _, k := range keys {
			rendered := renderValue(v[k])
			if rendered == "" {
				continue
			}

			lines = append(lines, fmt.Sprintf("- **%s**: %s", titleCase(k), rendered))
		}

		return strings.Join(lines, "\n")
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}

		return fmt.Sprintf("%g", v)
	case bool:
		if v {
			return "Yes"
		}

		return "No"
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// titleCase turns a snake_case or kebab-case payload key into a label.
func titleCase(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})

	for i, w := range words {
		if w == "" {
			continue
		}

		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}

	return strings.Join(words, " ")
}

// projectionsFormatter renders year-by-year financial projections as a
// markdown table, followed by an assumptions block when present.
func projectionsFormatter(data map[string]any) string {
	var b strings.Builder

	years, _ := data["projections"].([]any)
	if len(years) > 0 {
		b.WriteString("## Projections\n\n")
		b.WriteString("| Year | Revenue | Expenses | Net |\n")
		b.WriteString("| --- | --- | --- | --- |\n")

		for _, entry := range years {
			row, ok := entry.(map[string]any)
			if !ok {
				continue
			}

			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				renderValue(row["year"]),
				renderValue(row["revenue"]),
				renderValue(row["expenses"]),
				renderValue(row["net"]),
			))
		}

		b.WriteString("\n")
	}

	if assumptions := renderValue(data["assumptions"]); assumptions != "" {
		b.WriteString("## Assumptions\n\n")
		b.WriteString(assumptions)
		b.WriteString("\n\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// startupCostsFormatter renders cost line items as a table with an
// optional total row.
func startupCostsFormatter(data map[string]any) string {
	var b strings.Builder

	items, _ := data["items"].([]any)
	if len(items) > 0 {
		b.WriteString("## Startup Costs\n\n")
		b.WriteString("| Item | Amount |\n")
		b.WriteString("| --- | --- |\n")

		for _, entry := range items {
			row, ok := entry.(map[string]any)
			if !ok {
				continue
			}

			b.WriteString(fmt.Sprintf("| %s | %s |\n",
				renderValue(row["name"]),
				renderValue(row["amount"]),
			))
		}

		if total := renderValue(data["total"]); total != "" {
			b.WriteString(fmt.Sprintf("| **Total** | %s |\n", total))
		}

		b.WriteString("\n")
	}

	if notes := renderValue(data["notes"]); notes != "" {
		b.WriteString("## Notes\n\n")
		b.WriteString(notes)
		b.WriteString("\n\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// swotFormatter renders the four SWOT quadrants in fixed order.
func swotFormatter(data map[string]any) string {
	quadrants := []Field{
		{Key: "strengths", Heading: "Strengths"},
		{Key: "weaknesses", Heading: "Weaknesses"},
		{Key: "opportunities", Heading: "Opportunities"},
		{Key: "threats", Heading: "Threats"},
	}

	return fieldsFormatter(quadrants)(data)
}
