package treepatch

// Stats holds statistical metadata about a diff
type Stats struct {
	Left  int `json:"leftNodes"`  // count of nodes in the left tree
	Right int `json:"rightNodes"` // count of nodes in the right tree

	Inserts int `json:"inserts,omitempty"` // number of nodes inserted
	Updates int `json:"updates,omitempty"` // number of values updated
	Removes int `json:"removes,omitempty"` // number of nodes removed
}

// NodeChange returns a count of the shift between left & right trees
func (s Stats) NodeChange() int {
	return s.Right - s.Left
}

// CountChanges tallies the inserts, updates & removes a difference holds.
// Inserted & removed containers count every node they hold. Left & Right are
// left at zero, they need the trees themselves
func CountChanges(d Difference) Stats {
	st := Stats{}
	st.add(d)
	return st
}

func (s *Stats) add(d Difference) {
	switch x := d.(type) {
	case Insert:
		s.Inserts += countNodes(x.Value)
	case Remove:
		s.Removes += countNodes(x.Value)
	case Update:
		s.Updates++
	case DiffMap:
		for _, ch := range x {
			s.add(ch)
		}
	case DiffList:
		for _, ch := range x.Entries {
			s.add(ch)
		}
	}
}
