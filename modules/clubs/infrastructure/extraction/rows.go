package extraction

import (
	"strings"

	"github.com/iota-uz/clubs/modules/clubs/domain/reconcile"
)

var (
	firstNameHeaders = []string{"first name", "firstname", "first", "given name"}
	lastNameHeaders  = []string{"last name", "lastname", "last", "surname", "family name"}
	fullNameHeaders  = []string{"name", "full name", "fullname", "student", "student name"}
)

type columnLayout struct {
	first int
	last  int
	full  int
}

// namesFromRows reads names out of tabular data. A header row naming first/last name columns wins over
// a single name column; without a recognizable header the first non-empty cell of every row is used.
func namesFromRows(rows [][]string) []reconcile.RawName {
	if len(rows) == 0 {
		return nil
	}
	if len(rows[0]) > 0 {
		rows[0][0] = stripBOM(rows[0][0])
	}

	layout, ok := detectLayout(rows[0])
	if !ok {
		out := make([]reconcile.RawName, 0, len(rows))
		for _, row := range rows {
			if name, ok := reconcile.NewRawName(firstNonEmpty(row)); ok {
				out = append(out, name)
			}
		}
		return out
	}

	out := make([]reconcile.RawName, 0, len(rows)-1)
	for _, row := range rows[1:] {
		var value string
		if layout.first >= 0 && layout.last >= 0 {
			value = strings.TrimSpace(cell(row, layout.first) + " " + cell(row, layout.last))
		} else {
			value = cell(row, layout.full)
		}
		if name, ok := reconcile.NewRawName(value); ok {
			out = append(out, name)
		}
	}
	return out
}

func detectLayout(header []string) (columnLayout, bool) {
	layout := columnLayout{first: -1, last: -1, full: -1}
	for i, h := range header {
		key := headerKey(h)
		switch {
		case layout.first < 0 && contains(firstNameHeaders, key):
			layout.first = i
		case layout.last < 0 && contains(lastNameHeaders, key):
			layout.last = i
		case layout.full < 0 && contains(fullNameHeaders, key):
			layout.full = i
		}
	}
	if layout.first >= 0 && layout.last >= 0 {
		return layout, true
	}
	if layout.full >= 0 {
		layout.first, layout.last = -1, -1
		return layout, true
	}
	return columnLayout{}, false
}

// stripBOM drops the UTF-8 byte order mark that spreadsheet "CSV UTF-8" exports put in front of the first cell.
func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}

func headerKey(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer("_", " ", "-", " ").Replace(h)
	return strings.Join(strings.Fields(h), " ")
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func firstNonEmpty(row []string) string {
	for _, c := range row {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return ""
}
