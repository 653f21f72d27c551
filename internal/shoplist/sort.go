package shoplist

import (
	"cmp"
	"slices"

	"github.com/dukerupert/shopfaster/internal/model"
)

// Compare orders list entries for display:
//
//	active, not crossed off   (by sortOrder)
//	active, crossed off       (by sortOrder)
//	inactive                  (no order among themselves)
//
// It is a total preorder, so it must be paired with a stable sort.
func Compare(a, b model.ListView) int {
	switch {
	case a.Active && b.Active:
		if a.CrossedOff != b.CrossedOff {
			if a.CrossedOff {
				return 1
			}
			return -1
		}
		return cmp.Compare(a.SortOrder, b.SortOrder)
	case a.Active:
		return -1
	case b.Active:
		return 1
	default:
		return 0
	}
}

// Sort orders views in place. Entries that compare equal keep their
// relative order.
func Sort(views []model.ListView) {
	slices.SortStableFunc(views, Compare)
}
