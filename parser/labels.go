package parser

import "fmt"

// LabelTable maps label names to the byte offset they were defined at.
// Insertion-ordered so diagnostics and dumps are stable. A duplicate
// definition is a hard error (spec §9 design note).
type LabelTable struct {
	offsets map[string]uint32
	order   []string
}

// NewLabelTable creates an empty label table.
func NewLabelTable() *LabelTable {
	return &LabelTable{offsets: make(map[string]uint32)}
}

// Define records a label at offset, or returns an error if it is already
// defined.
func (lt *LabelTable) Define(name string, offset uint32) error {
	if _, exists := lt.offsets[name]; exists {
		return fmt.Errorf("duplicate label %q", name)
	}
	lt.offsets[name] = offset
	lt.order = append(lt.order, name)
	return nil
}

// Lookup returns a label's offset, if defined.
func (lt *LabelTable) Lookup(name string) (uint32, bool) {
	off, ok := lt.offsets[name]
	return off, ok
}

// Names returns every defined label name in definition order.
func (lt *LabelTable) Names() []string {
	return lt.order
}
