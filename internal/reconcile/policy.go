package reconcile

import (
	"fmt"
	"regexp"
	"strings"
)

// Direction names the side of an auxiliary column a merge goes to.
type Direction int

const (
	Right Direction = iota
	Left
)

func (d Direction) String() string {
	if d == Left {
		return "left"
	}
	return "right"
}

// DefaultPlaceholderPattern matches generated header names such as "Col3" or
// "column 12".
const DefaultPlaceholderPattern = `(?i)^col(umn)?\s*\d+$`

var defaultPlaceholder = regexp.MustCompile(DefaultPlaceholderPattern)

// Policy controls how auxiliary columns are recognised and which neighbour
// is tried first.
type Policy struct {
	Placeholder *regexp.Regexp
	// Preference is the order real neighbours are tried in. It must hold
	// each Direction at most once.
	Preference []Direction
}

// DefaultPolicy prefers the right neighbour, then the left.
func DefaultPolicy() Policy {
	return Policy{
		Placeholder: defaultPlaceholder,
		Preference:  []Direction{Right, Left},
	}
}

// ParsePreference maps a configured preference ("right" or "left") to a
// neighbour order.
func ParsePreference(value string) ([]Direction, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "right":
		return []Direction{Right, Left}, nil
	case "left":
		return []Direction{Left, Right}, nil
	default:
		return nil, fmt.Errorf("merge preference: unsupported value %q", value)
	}
}

// NewPolicy compiles pattern and parses preference into a Policy.
func NewPolicy(pattern, preference string) (Policy, error) {
	policy := DefaultPolicy()
	if strings.TrimSpace(pattern) != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return Policy{}, fmt.Errorf("placeholder pattern: %w", err)
		}
		policy.Placeholder = re
	}
	order, err := ParsePreference(preference)
	if err != nil {
		return Policy{}, err
	}
	policy.Preference = order
	return policy, nil
}
