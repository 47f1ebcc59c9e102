package reconcile

import (
	"slices"
	"strings"

	"critable/internal/tables"
)

// Reconciler resolves auxiliary columns according to a Policy. It holds no
// per-call state and is safe for concurrent use.
type Reconciler struct {
	policy Policy
}

// New returns a Reconciler for policy. Zero fields fall back to DefaultPolicy.
func New(policy Policy) *Reconciler {
	def := DefaultPolicy()
	if policy.Placeholder == nil {
		policy.Placeholder = def.Placeholder
	}
	if len(policy.Preference) == 0 {
		policy.Preference = def.Preference
	}
	return &Reconciler{policy: policy}
}

// IsAuxiliary reports whether a header name marks an auxiliary column.
func (r *Reconciler) IsAuxiliary(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || r.policy.Placeholder.MatchString(name)
}

type column struct {
	name  string
	index int
	aux   bool
	cells []string
}

func (c column) blank() bool {
	for _, cell := range c.cells {
		if !tables.IsBlank(cell) {
			return false
		}
	}
	return true
}

type target struct {
	pos int
	dir Direction
}

// Reconcile returns a rectangular table with every auxiliary column dropped
// or merged, duplicate column names folded into their first occurrence, and
// rows that end up entirely blank removed. The candidate is not modified.
func (r *Reconciler) Reconcile(c tables.Candidate) (tables.Table, error) {
	cols := r.columns(c)

	// Columns left of i are never auxiliary. A merge into an auxiliary right
	// neighbour leaves that neighbour at i for the next pass.
	for i := 0; i < len(cols); {
		if !cols[i].aux {
			i++
			continue
		}
		if cols[i].blank() {
			cols = slices.Delete(cols, i, i+1)
			continue
		}
		pos, err := r.resolve(c.Page, cols, i)
		if err != nil {
			return tables.Table{}, err
		}
		fill(&cols[pos], cols[i])
		cols = slices.Delete(cols, i, i+1)
	}

	cols, err := foldDuplicates(c.Page, cols)
	if err != nil {
		return tables.Table{}, err
	}
	return build(c.Page, cols), nil
}

func (r *Reconciler) columns(c tables.Candidate) []column {
	rows := tables.TextRows(c.Rows)
	width := len(c.Header)
	for _, row := range rows {
		width = max(width, len(row))
	}
	cols := make([]column, width)
	for j := range cols {
		var name string
		if j < len(c.Header) {
			name = c.Header[j]
		}
		cells := make([]string, len(rows))
		for i, row := range rows {
			if j < len(row) {
				cells[i] = row[j]
			}
		}
		cols[j] = column{
			name:  tables.CollapseSpace(name),
			index: j,
			aux:   r.IsAuxiliary(name),
			cells: cells,
		}
	}
	return cols
}

// targets lists merge candidates for the auxiliary column at pos in the order
// they should be tried.
func (r *Reconciler) targets(cols []column, pos int) []target {
	if pos == 0 {
		for k := 1; k < len(cols); k++ {
			if !cols[k].aux {
				return []target{{pos: k, dir: Right}}
			}
		}
		return nil
	}

	neighbours := map[Direction]int{Left: pos - 1}
	if pos+1 < len(cols) {
		neighbours[Right] = pos + 1
	}
	realOnly := false
	for _, k := range neighbours {
		if !cols[k].aux {
			realOnly = true
		}
	}

	var out []target
	for _, dir := range r.policy.Preference {
		k, ok := neighbours[dir]
		if !ok || (realOnly && cols[k].aux) {
			continue
		}
		out = append(out, target{pos: k, dir: dir})
	}
	return out
}

func (r *Reconciler) resolve(page int, cols []column, pos int) (int, error) {
	aux := cols[pos]
	options := r.targets(cols, pos)
	if len(options) == 0 {
		return -1, &MergeAmbiguityError{
			Page:   page,
			Column: aux.name,
			Index:  aux.index,
			Reason: "no real column to merge into",
		}
	}

	var conflicts []Conflict
	for _, opt := range options {
		found := conflictsWith(aux, cols[opt.pos], opt.dir)
		if len(found) == 0 {
			return opt.pos, nil
		}
		conflicts = append(conflicts, found...)
	}
	return -1, ambiguity(page, aux, cols, conflicts, "every direction conflicts")
}

func conflictsWith(aux, dst column, dir Direction) []Conflict {
	var out []Conflict
	for i, value := range aux.cells {
		other := dst.cells[i]
		if tables.IsBlank(value) || tables.IsBlank(other) || value == other {
			continue
		}
		out = append(out, Conflict{
			Row:         i,
			Direction:   dir,
			Target:      dst.name,
			Value:       value,
			TargetValue: other,
		})
	}
	return out
}

func ambiguity(page int, aux column, cols []column, conflicts []Conflict, reason string) *MergeAmbiguityError {
	header := make([]string, len(cols))
	for j, col := range cols {
		header[j] = col.name
	}
	rows := make(map[int][]string)
	for _, c := range conflicts {
		if _, ok := rows[c.Row]; ok {
			continue
		}
		row := make([]string, len(cols))
		for j, col := range cols {
			row[j] = col.cells[c.Row]
		}
		rows[c.Row] = row
	}
	return &MergeAmbiguityError{
		Page:      page,
		Column:    aux.name,
		Index:     aux.index,
		Reason:    reason,
		Conflicts: conflicts,
		Header:    header,
		Rows:      rows,
	}
}

// fill copies src values into blank cells of dst. Non-blank dst cells are
// never overwritten.
func fill(dst *column, src column) {
	for i, value := range src.cells {
		if tables.IsBlank(dst.cells[i]) && !tables.IsBlank(value) {
			dst.cells[i] = value
		}
	}
}

func foldDuplicates(page int, cols []column) ([]column, error) {
	for i := 1; i < len(cols); {
		first := slices.IndexFunc(cols[:i], func(c column) bool {
			return strings.EqualFold(c.name, cols[i].name)
		})
		if first < 0 {
			i++
			continue
		}
		if found := conflictsWith(cols[i], cols[first], Left); len(found) > 0 {
			return nil, ambiguity(page, cols[i], cols, found, "duplicate column conflicts with its first occurrence")
		}
		fill(&cols[first], cols[i])
		cols = slices.Delete(cols, i, i+1)
	}
	return cols, nil
}

func build(page int, cols []column) tables.Table {
	t := tables.Table{Page: page, Header: make([]string, len(cols))}
	for j, col := range cols {
		t.Header[j] = col.name
	}
	if len(cols) == 0 {
		return t
	}
	for i := range cols[0].cells {
		row := make([]string, len(cols))
		for j, col := range cols {
			row[j] = col.cells[i]
		}
		if tables.RowBlank(row) {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
