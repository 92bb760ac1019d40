package efd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// packedSuffix returns the numeric suffix of field relative to base, or
// false when field is not a packed member of base. The whole remainder must
// be digits so that base "foo" matches "foo0" and "foo12" but never
// "foobar" or "foo1x".
func packedSuffix(field, base string) (int, bool) {
	if !strings.HasPrefix(field, base) {
		return 0, false
	}
	suffix := field[len(base):]
	if suffix == "" {
		return 0, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 || strings.ContainsAny(suffix, "+-") {
		return 0, false
	}
	return n, true
}

// expandFields discovers the packed members of each base field among the
// available fields. It returns the members per base, sorted numerically by
// suffix, and the common arity N.
//
// Every base must match at least one member, and all bases must match the
// same count; a mismatch reports the offending base and both counts.
func expandFields(fields []string, baseFields []string) (map[string][]string, int, error) {
	matched := make(map[string][]string, len(baseFields))
	n := -1
	for _, base := range baseFields {
		var members []string
		for _, f := range fields {
			if _, ok := packedSuffix(f, base); ok {
				members = append(members, f)
			}
		}
		if len(members) == 0 {
			return nil, 0, fmt.Errorf("%w: %s", ErrNoPackedFields, base)
		}
		sort.Slice(members, func(i, j int) bool {
			a, _ := packedSuffix(members[i], base)
			b, _ := packedSuffix(members[j], base)
			return a < b
		})
		if n < 0 {
			n = len(members)
		} else if n != len(members) {
			return nil, 0, fmt.Errorf("%w: %s: %d vs. %d",
				ErrFieldArity, base, n, len(members))
		}
		matched[base] = members
	}
	return matched, n, nil
}

// MakeFields flattens the packed members of the base fields into one query
// projection list, preserving base-field order and numeric member order.
func MakeFields(fields []string, baseFields []string) ([]string, error) {
	matched, _, err := expandFields(fields, baseFields)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, base := range baseFields {
		out = append(out, matched[base]...)
	}
	return out, nil
}
