package records

import (
	"fmt"
	"sort"
	"strings"
)

// FieldNotFoundError is returned when a sort or lookup names a field that is
// not present on the record set.
type FieldNotFoundError struct {
	Field     string
	Available []string
}

func (e *FieldNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("field %q not found", e.Field)
	}
	return fmt.Sprintf("field %q not found (available: %s)", e.Field, strings.Join(e.Available, ", "))
}

// SortByField returns a stably sorted copy of records ordered by the named
// field. Nil or missing values sort before all non-nil values regardless of
// direction; descending only reverses the non-nil group. The field must be
// present on the first record: absence there is treated as absence from the
// whole set, and reported rather than silently producing an arbitrary order.
func SortByField(recs []Record, field string, descending bool) ([]Record, error) {
	if len(recs) == 0 {
		return recs, nil
	}

	if _, ok := recs[0][field]; !ok {
		return nil, &FieldNotFoundError{Field: field, Available: recs[0].FieldNames()}
	}

	out := make([]Record, len(recs))
	copy(out, recs)

	sort.SliceStable(out, func(i, j int) bool {
		vi := out[i][field]
		vj := out[j][field]

		iNil := vi == nil
		jNil := vj == nil
		if iNil || jNil {
			// Nulls first in both directions.
			return iNil && !jNil
		}

		less := compareValues(vi, vj)
		if descending {
			return compareValues(vj, vi)
		}
		return less
	})

	return out, nil
}

// compareValues orders two non-nil field values: numerically when both are
// numbers, lexically on their string forms otherwise. Booleans order false
// before true.
func compareValues(a, b interface{}) bool {
	if fa, ok := ToFloat64(a); ok {
		if fb, ok := ToFloat64(b); ok {
			return fa < fb
		}
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			return !ba && bb
		}
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}
