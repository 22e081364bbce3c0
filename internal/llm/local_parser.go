package llm

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chrisdamba/menusight/internal/models"
)

var columnAliases = map[string]string{
	"name":         "name",
	"item":         "name",
	"itemname":     "name",
	"menuitem":     "name",
	"product":      "name",
	"category":     "category",
	"itemcategory": "category",
	"cost":         "cost",
	"unitcost":     "cost",
	"costprice":    "cost",
	"price":        "price",
	"unitprice":    "price",
	"sellingprice": "price",
	"salescount":   "salesCount",
	"sales":        "salesCount",
	"quantity":     "salesCount",
	"qty":          "salesCount",
	"count":        "salesCount",
	"unitssold":    "salesCount",
	"quantitysold": "salesCount",
}

// LocalParser reads well formed CSV or JSON exports without a model. It
// expects a header row naming at least the item, price and cost columns.
type LocalParser struct{}

func (LocalParser) Name() string { return "local" }

func (LocalParser) Parse(ctx context.Context, raw, format string) (ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return ParseResult{}, err
	}

	var entries []map[string]any
	var err error
	switch format {
	case models.FormatJSON:
		entries, err = jsonEntries(raw)
	case models.FormatCSV, models.FormatText:
		entries, err = csvEntries(raw)
	default:
		return ParseResult{}, fmt.Errorf("%w: %s", models.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return ParseResult{}, err
	}

	items, skipped := parsedItems(entries)
	if len(items) == 0 {
		return ParseResult{}, models.ErrParse
	}
	return ParseResult{
		Items:   items,
		Summary: fmt.Sprintf("Parsed %d menu items from %s data", len(items), format),
		Skipped: skipped,
	}, nil
}

func normalizeColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer("_", "", " ", "", "-", "").Replace(name)
	return columnAliases[name]
}

func jsonEntries(raw string) ([]map[string]any, error) {
	raw = strings.TrimSpace(raw)
	var list []map[string]any
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrParse, err)
		}
	} else {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal([]byte(raw), &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrParse, err)
		}
		for _, key := range []string{"menuItems", "items", "data"} {
			if body, ok := wrapped[key]; ok {
				if err := json.Unmarshal(body, &list); err != nil {
					return nil, fmt.Errorf("%w: %v", models.ErrParse, err)
				}
				break
			}
		}
	}

	entries := make([]map[string]any, 0, len(list))
	for _, obj := range list {
		entry := make(map[string]any, len(obj))
		for k, v := range obj {
			if field := normalizeColumn(k); field != "" {
				entry[field] = coerce(field, v)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func csvEntries(raw string) ([]map[string]any, error) {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	if firstLine, _, _ := strings.Cut(raw, "\n"); strings.Count(firstLine, "\t") > strings.Count(firstLine, ",") {
		reader.Comma = '\t'
	}

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing header row", models.ErrParse)
	}
	fields := make([]string, len(header))
	for i, col := range header {
		fields[i] = normalizeColumn(col)
	}

	var entries []map[string]any
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrParse, err)
		}
		entry := make(map[string]any)
		for i, value := range record {
			if i >= len(fields) || fields[i] == "" {
				continue
			}
			entry[fields[i]] = coerce(fields[i], value)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// coerce converts numeric columns given as text, including "$12.50".
func coerce(field string, v any) any {
	if field == "name" || field == "category" {
		return v
	}
	s, ok := v.(string)
	if !ok {
		return v
	}
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return v
	}
	return f
}
