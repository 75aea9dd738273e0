// Package layout models memory regions and the ordered sections placed in
// them, and derives each section's execution and load address expressions.
//
// # Model
//
//   - Region: named origin/length range, optionally with an alias window
//     (addressed as "<name>_aliased") onto the same storage.
//   - Section: one output section bound to one region. Sections are chained to
//     the section declared immediately before them in the same region.
//   - Shadow view: a section whose Shadow field points at a storage section in
//     another region. The view carries geometry only; the storage section
//     carries the content.
//
// # Address Hierarchy
//
// Execution addresses are derived from the chain predecessor:
//
//  1. an explicit ExecAddress always wins
//  2. a predecessor in a different alias window, or a shadow view predecessor,
//     anchors the section at ORIGIN of its own window
//  3. otherwise the section follows its predecessor:
//     ADDR(.prev) + SIZEOF(.prev)
//
// Load addresses are only emitted for sections with an explicit load
// address, with LoadAddressDirect, or in a chain touching an alias window.
// They are walked backwards in the base window until a section whose load
// address is known.
//
// # Example
//
//	l2 := layout.NewRegion("L2", 0x1c000000, 0x100000)
//	text := &layout.Section{Name: "text"}
//	data := &layout.Section{Name: "data"}
//	l2.AddSection(text)
//	l2.AddSection(data)
//	data.ExecHierarchy() // "ADDR(.text) + SIZEOF(.text)"
//
// The model is built once and is read-only afterwards; it is not safe to add
// sections while emitting.
package layout
