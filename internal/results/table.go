package results

import "strings"

// Collection is an ordered sequence of records rendered as one table.
type Collection []*Record

// Headers returns the union of field names across all records in
// first-seen order: records in collection order, fields within a record in
// their own order. This is the table's column order and is stable for a
// given collection.
func (c Collection) Headers() []string {
	var headers []string
	seen := make(map[string]struct{})
	for _, rec := range c {
		for _, name := range rec.fields {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			headers = append(headers, name)
		}
	}
	return headers
}

// Selection marks record indices included in an export. An empty selection
// means every record: picking rows is opt-in.
type Selection map[int]struct{}

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return make(Selection)
}

// Add marks an index as selected.
func (s Selection) Add(i int) {
	s[i] = struct{}{}
}

// Toggle flips membership for an index. Toggling twice restores the set.
func (s Selection) Toggle(i int) {
	if _, ok := s[i]; ok {
		delete(s, i)
		return
	}
	s[i] = struct{}{}
}

// Has reports whether an index is selected.
func (s Selection) Has(i int) bool {
	_, ok := s[i]
	return ok
}

// Empty reports whether no rows are marked.
func (s Selection) Empty() bool {
	return len(s) == 0
}

// cells flattens characters that would shear a pasted table.
var cells = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

// TSV renders the collection as tab-separated text for spreadsheet paste:
// a header row of display names, then one row per included record in
// collection order. A record is included when sel is empty or contains its
// index; fields a record lacks render as empty cells. An empty collection
// has no table at all and renders as the empty string.
func (c Collection) TSV(sel Selection) string {
	if len(c) == 0 {
		return ""
	}
	headers := c.Headers()
	if len(headers) == 0 {
		return ""
	}

	var b strings.Builder
	for i, h := range headers {
		if i > 0 {
			b.WriteByte('\t')
		}
		b.WriteString(cells.Replace(DisplayHeader(h)))
	}
	for i, rec := range c {
		if !sel.Empty() && !sel.Has(i) {
			continue
		}
		b.WriteByte('\n')
		for j, h := range headers {
			if j > 0 {
				b.WriteByte('\t')
			}
			v, _ := rec.Get(h)
			b.WriteString(cells.Replace(v))
		}
	}
	return b.String()
}

// DisplayHeader turns a camelCase field name into a spaced, capitalized
// column title: "epicName" becomes "Epic Name". Presentation only; lookups
// always use the raw field name.
func DisplayHeader(name string) string {
	if name == "" {
		return name
	}
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if c := out[0]; c >= 'a' && c <= 'z' {
		out = strings.ToUpper(out[:1]) + out[1:]
	}
	return out
}
