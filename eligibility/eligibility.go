// SPDX-License-Identifier: MIT

package eligibility

// Allows reports whether a shelter designated d may receive an individual of gender g.
//
// Complexity: O(1).
func Allows(d Designation, g Gender) bool {
	switch d {
	case Mixed:
		return g.Valid()
	case MenOnly:
		return g == Men
	case WomenOnly:
		return g == Women
	default:
		return false
	}
}

// PairEligible reports whether a shelter designated d accepts at least one
// gender with positive demand.
func PairEligible(d Designation, demand [NumGenders]int64) bool {
	for _, g := range Genders {
		if demand[g] > 0 && Allows(d, g) {
			return true
		}
	}

	return false
}

// Table is a precomputed shelter × gender eligibility lookup.
// Row order follows the designations slice passed to NewTable.
type Table struct {
	rows [][NumGenders]bool
}

// NewTable builds the lookup for the given shelter designations.
func NewTable(designations []Designation) Table {
	rows := make([][NumGenders]bool, len(designations))
	for s, d := range designations {
		for _, g := range Genders {
			rows[s][g] = Allows(d, g)
		}
	}

	return Table{rows: rows}
}

// Allows reports whether shelter index s accepts gender g.
// Out-of-range indices are never eligible.
func (t Table) Allows(s int, g Gender) bool {
	if s < 0 || s >= len(t.rows) || !g.Valid() {
		return false
	}

	return t.rows[s][g]
}

// Shelters returns the shelter indices eligible for g, in index order.
func (t Table) Shelters(g Gender) []int {
	out := make([]int, 0, len(t.rows))
	for s := range t.rows {
		if t.rows[s][g] {
			out = append(out, s)
		}
	}

	return out
}

// Len returns the number of shelters covered by the table.
func (t Table) Len() int { return len(t.rows) }
