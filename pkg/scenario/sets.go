package scenario

import "fmt"

// SetRegistry stores named, ordered, duplicate-free collections of set
// members. Sets are append-only; re-adding an existing member is a no-op.
type SetRegistry struct {
	order   []string
	members map[string][]string
	index   map[string]map[string]struct{}
}

// NewSetRegistry creates an empty registry.
func NewSetRegistry() *SetRegistry {
	return &SetRegistry{
		members: make(map[string][]string),
		index:   make(map[string]map[string]struct{}),
	}
}

// Define appends members to the named set, creating it if needed. Duplicates
// are ignored so repeated definitions stay idempotent.
func (r *SetRegistry) Define(name string, members ...string) {
	if _, ok := r.index[name]; !ok {
		r.order = append(r.order, name)
		r.index[name] = make(map[string]struct{})
	}

	for _, m := range members {
		if _, ok := r.index[name][m]; ok {
			continue
		}
		r.index[name][m] = struct{}{}
		r.members[name] = append(r.members[name], m)
	}
}

// Has reports whether the named set was defined.
func (r *SetRegistry) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Contains reports whether value is a member of the named set. Undefined
// sets contain nothing.
func (r *SetRegistry) Contains(name, value string) bool {
	idx, ok := r.index[name]
	if !ok {
		return false
	}
	_, ok = idx[value]

	return ok
}

// Members returns the ordered members of the named set.
func (r *SetRegistry) Members(name string) ([]string, error) {
	if !r.Has(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSet, name)
	}

	return r.members[name], nil
}

// Names returns the defined set names in definition order.
func (r *SetRegistry) Names() []string {
	return r.order
}
