package logging

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// plainValue renders a value without quoting, for line prefixes.
func plainValue(v slog.Value) string {
	if v.Kind() == slog.KindString {
		return v.String()
	}
	if err, ok := v.Any().(error); ok && v.Kind() == slog.KindAny {
		return err.Error()
	}
	var buf bytes.Buffer
	writeValue(&buf, v)
	return strings.Trim(buf.String(), `"`)
}

func writeValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindBool:
		buf.WriteString(strconv.FormatBool(v.Bool()))
	case slog.KindInt64:
		buf.WriteString(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		buf.WriteString(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		buf.WriteString(strconv.FormatFloat(v.Float64(), 'f', -1, 64))
	case slog.KindDuration:
		buf.WriteString(v.Duration().Round(time.Millisecond).String())
	case slog.KindTime:
		buf.WriteString(v.Time().UTC().Format(time.RFC3339))
	case slog.KindAny:
		switch value := v.Any().(type) {
		case error:
			writeText(buf, value.Error())
		case []int:
			// Page lists: [3,4,6]
			buf.WriteByte('[')
			for i, n := range value {
				if i > 0 {
					buf.WriteByte(',')
				}
				buf.WriteString(strconv.Itoa(n))
			}
			buf.WriteByte(']')
		case []string:
			writeText(buf, strings.Join(value, ","))
		default:
			writeText(buf, fmt.Sprint(value))
		}
	default:
		writeText(buf, v.String())
	}
}

// writeText quotes s when it is empty or would break key=value parsing.
func writeText(buf *bytes.Buffer, s string) {
	if s != "" && !strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		buf.WriteString(s)
		return
	}
	buf.WriteString(strconv.Quote(s))
}
