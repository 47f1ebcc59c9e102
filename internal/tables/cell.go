package tables

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Text converts a detector cell value into its string form. Null-like values
// (nil, NaN) become the empty string; numbers use their shortest decimal
// representation; nested arrays are joined with newlines.
func Text(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case json.Number:
		return value.String()
	case float64:
		return formatFloat(value)
	case float32:
		return formatFloat(float64(value))
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case int32:
		return strconv.FormatInt(int64(value), 10)
	case uint64:
		return strconv.FormatUint(value, 10)
	case bool:
		return strconv.FormatBool(value)
	case []string:
		return strings.Join(value, "\n")
	case []any:
		parts := make([]string, 0, len(value))
		for _, item := range value {
			if s := Text(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	case map[string]any:
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprint(value)
		}
		return string(data)
	case fmt.Stringer:
		return value.String()
	default:
		return fmt.Sprint(value)
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// TextRows converts every cell of rows with Text.
func TextRows(rows [][]any) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		converted := make([]string, len(row))
		for j, cell := range row {
			converted[j] = Text(cell)
		}
		out[i] = converted
	}
	return out
}

// StringRows wraps string rows as detector cells.
func StringRows(rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		converted := make([]any, len(row))
		for j, cell := range row {
			converted[j] = cell
		}
		out[i] = converted
	}
	return out
}
