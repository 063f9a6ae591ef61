// Package dedupe detects and removes rows that are exact duplicates of
// another row in the same table.
package dedupe

import (
	"github.com/David-Botos/data-cleaning/pkg/model"
)

// DuplicateGroups returns every group of two or more identical rows. Groups
// are ordered by their first row and each group lists its rows ascending.
func DuplicateGroups(t *model.Table) [][]int {
	n := t.NumRows()
	byKey := make(map[string]int, n)
	var groups [][]int
	for i := 0; i < n; i++ {
		key := t.RowKey(i)
		if g, ok := byKey[key]; ok {
			groups[g] = append(groups[g], i)
			continue
		}
		byKey[key] = len(groups)
		groups = append(groups, []int{i})
	}

	dups := groups[:0]
	for _, g := range groups {
		if len(g) > 1 {
			dups = append(dups, g)
		}
	}
	return dups
}

// FindDuplicates returns, ascending, the index of every row that has at least
// one exact duplicate elsewhere in the table. All members of a duplicate set
// are included, not just the repeats.
func FindDuplicates(t *model.Table) []int {
	n := t.NumRows()
	counts := make(map[string]int, n)
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = t.RowKey(i)
		counts[keys[i]]++
	}

	rows := []int{}
	for i, key := range keys {
		if counts[key] > 1 {
			rows = append(rows, i)
		}
	}
	return rows
}

// RemoveDuplicates keeps the first occurrence of each distinct row and drops
// later ones. Row order is preserved and the result is indexed contiguously.
func RemoveDuplicates(t *model.Table) (*model.Table, int) {
	n := t.NumRows()
	seen := make(map[string]struct{}, n)
	keep := make([]int, 0, n)
	for i := 0; i < n; i++ {
		key := t.RowKey(i)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}
	return t.SelectRows(keep), n - len(keep)
}
