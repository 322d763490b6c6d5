package jsondiff

import (
	"encoding/json"
	"fmt"
)

// ChangeType classifies a Change
type ChangeType string

const (
	// ChangeAdded is a location present only in the comparison document
	ChangeAdded = ChangeType("added")
	// ChangeRemoved is a location present only in the base document
	ChangeRemoved = ChangeType("removed")
	// ChangeModified is a location present in both documents with different
	// values, or with values of a different kind
	ChangeModified = ChangeType("modified")
	// ChangeUnchanged is an equal leaf, emitted only in verbose mode
	ChangeUnchanged = ChangeType("unchanged")
)

// Change is a single difference between a base and comparison document
type Change struct {
	// Path locates the change, see FormatPath for the notation
	Path string
	Type ChangeType
	// OldValue is the base document's value. unset for ChangeAdded
	OldValue interface{}
	// NewValue is the comparison document's value. unset for ChangeRemoved
	NewValue interface{}
}

type changeJSON struct {
	Path     string          `json:"path"`
	Type     ChangeType      `json:"type"`
	OldValue json.RawMessage `json:"oldValue,omitempty"`
	NewValue json.RawMessage `json:"newValue,omitempty"`
}

// MarshalJSON writes oldValue and newValue according to the change type
// instead of by nil-ness, so a modification to or from null keeps both
// fields
func (c *Change) MarshalJSON() ([]byte, error) {
	out := changeJSON{Path: c.Path, Type: c.Type}
	var err error
	if c.Type != ChangeAdded {
		if out.OldValue, err = json.Marshal(c.OldValue); err != nil {
			return nil, err
		}
	}
	if c.Type != ChangeRemoved {
		if out.NewValue, err = json.Marshal(c.NewValue); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a change, parsing values with Parse so object member
// order is retained
func (c *Change) UnmarshalJSON(data []byte) error {
	var in changeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Type {
	case ChangeAdded, ChangeRemoved, ChangeModified, ChangeUnchanged:
	default:
		return fmt.Errorf("unknown change type %q", in.Type)
	}

	*c = Change{Path: in.Path, Type: in.Type}
	var err error
	if len(in.OldValue) > 0 {
		if c.OldValue, err = Parse(in.OldValue); err != nil {
			return err
		}
	}
	if len(in.NewValue) > 0 {
		if c.NewValue, err = Parse(in.NewValue); err != nil {
			return err
		}
	}
	return nil
}

func (c *Change) String() string {
	return fmt.Sprintf("%s %s", c.Type, c.Path)
}

// Result is the outcome of comparing two documents
type Result struct {
	IsModified bool      `json:"isModified"`
	Changes    []*Change `json:"changes"`
}

// newResult aggregates changes in the order they were emitted
func newResult(changes []*Change) *Result {
	if changes == nil {
		changes = []*Change{}
	}
	r := &Result{Changes: changes}
	for _, c := range changes {
		if c.Type != ChangeUnchanged {
			r.IsModified = true
			break
		}
	}
	return r
}

// Paths lists the path of every change, in order
func (r *Result) Paths() []string {
	paths := make([]string, len(r.Changes))
	for i, c := range r.Changes {
		paths[i] = c.Path
	}
	return paths
}

// ByType groups changes by their type, keeping relative order
func (r *Result) ByType() map[ChangeType][]*Change {
	groups := map[ChangeType][]*Change{}
	for _, c := range r.Changes {
		groups[c.Type] = append(groups[c.Type], c)
	}
	return groups
}
