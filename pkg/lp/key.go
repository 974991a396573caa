package lp

import "strings"

// Key is an ordered index tuple identifying a variable or constraint
// instance, e.g. {node, technology, vintage, year, mode}. The ordering is
// fixed per family by whoever generates the instances.
type Key []string

// String renders the key in colon-separated form for logging and map keys.
func (k Key) String() string {
	return strings.Join(k, ":")
}

// Equal reports whether two keys have identical length and elements.
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// Matches reports whether the key satisfies a partial filter. Empty filter
// positions are wildcards. A filter longer than the key never matches.
func (k Key) Matches(filter Key) bool {
	if len(filter) > len(k) {
		return false
	}
	for i, f := range filter {
		if f != "" && f != k[i] {
			return false
		}
	}
	return true
}
