package pipeline

import (
	"fmt"
	"strings"
)

// kindMarker tags an error with a classification kind for status mapping.
type kindMarker struct {
	kind string
	text string
}

func (m *kindMarker) Error() string     { return m.text }
func (m *kindMarker) ErrorKind() string { return m.kind }

var (
	ErrValidation    error = &kindMarker{kind: "validation", text: "validation error"}
	ErrConfiguration error = &kindMarker{kind: "configuration", text: "configuration error"}
	ErrNotFound      error = &kindMarker{kind: "not_found", text: "not found"}
	ErrStorage       error = &kindMarker{kind: "storage", text: "storage error"}
	ErrTransient     error = &kindMarker{kind: "transient", text: "transient failure"}
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later status classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{stage, operation, message} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
