package jsondiff

// Stats holds statistical metadata about a diff
type Stats struct {
	Left  int `json:"leftNodes"`  // count of nodes in the left tree
	Right int `json:"rightNodes"` // count of nodes in the right tree

	Added     int `json:"added,omitempty"`     // number of added changes
	Removed   int `json:"removed,omitempty"`   // number of removed changes
	Modified  int `json:"modified,omitempty"`  // number of modified changes
	Unchanged int `json:"unchanged,omitempty"` // equal leaves, verbose mode only

	Cycles    int `json:"cycles,omitempty"`    // reference cycles cut short
	Truncated int `json:"truncated,omitempty"` // subtrees compared whole at max depth
}

// NodeChange returns a count of the shift between left & right trees
func (s Stats) NodeChange() int {
	return s.Right - s.Left
}

// Changes returns the number of non-unchanged changes counted
func (s Stats) Changes() int {
	return s.Added + s.Removed + s.Modified
}

func (s *Stats) count(c *Change) {
	switch c.Type {
	case ChangeAdded:
		s.Added++
	case ChangeRemoved:
		s.Removed++
	case ChangeModified:
		s.Modified++
	case ChangeUnchanged:
		s.Unchanged++
	}
}
