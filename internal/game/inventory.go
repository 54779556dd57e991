package game

// Inventory is the shared letter bag of one session.
//
// Letters are kept in the order they were earned (display order). The bag does
// not deduplicate: stations check Contains before appending where the rules
// require it. A session creates exactly one Inventory and hands the same
// pointer to every station.
type Inventory struct {
	letters []string
}

// NewInventory returns an empty bag.
func NewInventory() *Inventory {
	return &Inventory{letters: []string{}}
}

// Append adds letters to the end of the bag, in order.
func (inv *Inventory) Append(letters ...string) {
	inv.letters = append(inv.letters, letters...)
}

// Contains reports whether letter is already in the bag (case-sensitive).
func (inv *Inventory) Contains(letter string) bool {
	for _, l := range inv.letters {
		if l == letter {
			return true
		}
	}
	return false
}

// Letters returns a copy of the bag contents.
func (inv *Inventory) Letters() []string {
	out := make([]string, len(inv.letters))
	copy(out, inv.letters)
	return out
}

// Len returns the number of letters earned so far.
func (inv *Inventory) Len() int { return len(inv.letters) }
