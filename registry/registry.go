// Package registry implements the write-once slot registry behind declbridge.
// Every exported declaration gets exactly one named slot; slots are keyed by
// namespace (the exporting package's import path) and never mutated after
// registration.
package registry

import (
	"sort"
	"sync"

	"github.com/declbridge/declbridge/errors"
	"github.com/declbridge/declbridge/syntax"
)

// SlotPrefix is the reserved tag prepended to flattened names. The double
// underscore keeps generated slot constants out of the way of user-chosen
// identifiers.
const SlotPrefix = "__exported_decl_"

// SlotName derives the registry slot identifier for an exported name.
// Deterministic for a given input and independent of declaration order.
func SlotName(name string) string {
	return SlotPrefix + syntax.Flatten(name)
}

// Slot is one registered declaration: write-once, addressable by
// namespace + slot name.
type Slot struct {
	Name      string // slot identifier, SlotName(exported name)
	Namespace string // import path of the exporting package ("" for local)
	Decl      string // captured declaration source, canonical form
}

// Path returns the slot's addressable path.
func (s Slot) Path() syntax.Path {
	return syntax.Path{Pkg: s.Namespace, Name: s.Name}
}

// Table holds the slots of the compilation units processed in this run.
// Registration is write-once: two exports that flatten to the same name in
// the same namespace collide.
type Table struct {
	mu    sync.Mutex
	slots map[string]map[string]Slot // namespace -> slot name -> slot
}

// NewTable creates an empty slot table.
func NewTable() *Table {
	return &Table{slots: make(map[string]map[string]Slot)}
}

// Register adds a slot. Registering the same name twice in a namespace is a
// collision error even when the contents match, mirroring the host
// toolchain's duplicate-definition failure.
func (t *Table) Register(s Slot) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	ns, ok := t.slots[s.Namespace]
	if !ok {
		ns = make(map[string]Slot)
		t.slots[s.Namespace] = ns
	}
	if _, exists := ns[s.Name]; exists {
		return errors.Wrapf(ErrSlotCollision, "%s already registered in namespace %q", s.Name, s.Namespace)
	}
	ns[s.Name] = s
	return nil
}

// Lookup finds a slot by namespace and slot name.
func (t *Table) Lookup(namespace, name string) (Slot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.slots[namespace][name]
	return s, ok
}

// Snapshot returns the namespace's slots sorted by name, for deterministic
// file generation.
func (t *Table) Snapshot(namespace string) []Slot {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Slot, 0, len(t.slots[namespace]))
	for _, s := range t.slots[namespace] {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ErrSlotCollision indicates two exports flattened to the same slot name in
// one namespace.
var ErrSlotCollision = errors.New("registry slot collision")

// ErrSlotNotFound indicates a slot path that resolves to no registered or
// generated slot.
var ErrSlotNotFound = errors.New("registry slot not found")
