package script

import (
	"github.com/wippyai/tactics-script/errors"
)

// Reference is one string operand: a 4-byte slot in the code region holding
// an offset into the string pool.
type Reference struct {
	Text   string // resolved pool string
	Slot   uint32 // address of the 4-byte pointer field
	Target uint32 // pool offset stored in the slot
	Opcode uint32 // instruction the slot belongs to
}

// Role is the position of a reference inside a dialogue message.
type Role int

const (
	RoleDisplayName Role = iota
	RoleName
	RoleVoice
	RoleBody
)

func (r Role) String() string {
	switch r {
	case RoleDisplayName:
		return "display_name"
	case RoleName:
		return "name"
	case RoleVoice:
		return "voice"
	case RoleBody:
		return "body"
	default:
		return "unknown"
	}
}

// Message is one dialogue line. It holds the slots of its four references;
// the references themselves live in the RefTable.
type Message struct {
	DisplayName uint32
	Name        uint32
	Voice       uint32
	Body        uint32
}

// Slots returns the four slots in role order.
func (m Message) Slots() [4]uint32 {
	return [4]uint32{m.DisplayName, m.Name, m.Voice, m.Body}
}

// RefTable is the per-script arena of references, keyed by slot and kept in
// discovery order.
type RefTable struct {
	refs  []Reference
	index map[uint32]int
}

// NewRefTable creates an empty table.
func NewRefTable() *RefTable {
	return &RefTable{index: make(map[uint32]int)}
}

// Add registers a reference. A slot can only be registered once.
func (t *RefTable) Add(r Reference) error {
	if _, exists := t.index[r.Slot]; exists {
		return errors.DuplicateSlot(r.Slot)
	}
	t.index[r.Slot] = len(t.refs)
	t.refs = append(t.refs, r)
	return nil
}

// Get returns the reference registered at slot. The pointer stays valid
// until the next Add.
func (t *RefTable) Get(slot uint32) (*Reference, bool) {
	i, ok := t.index[slot]
	if !ok {
		return nil, false
	}
	return &t.refs[i], true
}

// Len returns the number of references.
func (t *RefTable) Len() int {
	return len(t.refs)
}

// At returns the i-th reference in discovery order.
func (t *RefTable) At(i int) *Reference {
	return &t.refs[i]
}

// Snapshot returns a copy of all references in discovery order.
func (t *RefTable) Snapshot() []Reference {
	out := make([]Reference, len(t.refs))
	copy(out, t.refs)
	return out
}
