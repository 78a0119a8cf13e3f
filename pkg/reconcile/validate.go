package reconcile

import (
	"fmt"
	"strings"

	"github.com/stackmap/stackmap/pkg/errors"
)

// Validation helpers. Checks append onto a shared collector so every
// violated field is reported in one pass rather than failing on the
// first.

// requireField records a violation when a required scalar is empty.
func requireField(v *errors.ValidationError, field, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, value, "is required")
	}
}

// requireEnum records a violation when value is not in the allowed set.
// Empty values are handled by requireField and skipped here.
func requireEnum[T ~string](v *errors.ValidationError, field string, value T, valid bool, allowed []T) {
	if value == "" || valid {
		return
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	v.Add(field, string(value), fmt.Sprintf("must be one of %s", strings.Join(names, ", ")))
}

// requirePositive records a violation when a numeric field is not
// strictly positive.
func requirePositive(v *errors.ValidationError, field string, value int) {
	if value <= 0 {
		v.Add(field, value, "must be positive")
	}
}
