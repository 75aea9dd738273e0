package layout

import (
	"fmt"
	"io"
)

// AliasSuffix is appended to a region name to address its alias window.
const AliasSuffix = "_aliased"

// Window is a based, sized address range.
type Window struct {
	Origin uint64
	Length uint64
}

// Region is a named memory range with an optional alias window onto the same
// storage. It owns the ordered list of sections placed in it.
type Region struct {
	alias    *Window
	Name     string
	sections []*Section
	Window
}

// NewRegion creates a region without an alias window.
func NewRegion(name string, origin, length uint64) *Region {
	return &Region{
		Name:   name,
		Window: Window{Origin: origin, Length: length},
	}
}

// SetAlias configures the alias window. A region has at most one; calling
// SetAlias again replaces it.
func (r *Region) SetAlias(origin, length uint64) *Region {
	r.alias = &Window{Origin: origin, Length: length}
	return r
}

// HasAlias reports whether an alias window is configured.
func (r *Region) HasAlias() bool {
	return r.alias != nil
}

// Alias returns the alias window.
func (r *Region) Alias() (Window, bool) {
	if r.alias == nil {
		return Window{}, false
	}
	return *r.alias, true
}

// AliasName is the name under which the alias window is addressed.
func (r *Region) AliasName() string {
	return r.Name + AliasSuffix
}

// AddressedName returns the alias name when useAlias is set, the base name
// otherwise.
func (r *Region) AddressedName(useAlias bool) string {
	if useAlias {
		return r.AliasName()
	}
	return r.Name
}

// EndSymbol is the symbol generated after the last section of the region.
func (r *Region) EndSymbol() string {
	return "__" + r.Name + "_end"
}

// AddSection appends s to the region. The former tail becomes s's chain
// predecessor and loses its terminal marker.
func (r *Region) AddSection(s *Section) {
	if s.region != nil {
		panic(fmt.Sprintf("layout: section %q already belongs to region %q", s.Name, s.region.Name))
	}

	s.region = r
	s.index = len(r.sections)
	s.prev = -1
	if tail := r.Tail(); tail != nil {
		tail.isLast = false
		s.prev = tail.index
	}
	s.isLast = true
	r.sections = append(r.sections, s)
}

// Sections returns the sections in declaration order.
func (r *Region) Sections() []*Section {
	return r.sections
}

// Tail returns the most recently added section, or nil.
func (r *Region) Tail() *Section {
	if len(r.sections) == 0 {
		return nil
	}
	return r.sections[len(r.sections)-1]
}

func (r *Region) section(index int) *Section {
	if index < 0 || index >= len(r.sections) {
		return nil
	}
	return r.sections[index]
}

// Emit writes the MEMORY table entries of the region.
func (r *Region) Emit(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "  %s : ORIGIN = 0x%08x, LENGTH = 0x%08x\n", r.Name, r.Origin, r.Length); err != nil {
		return err
	}
	if r.alias != nil {
		if _, err := fmt.Fprintf(w, "  %s : ORIGIN = 0x%08x, LENGTH = 0x%08x\n", r.AliasName(), r.alias.Origin, r.alias.Length); err != nil {
			return err
		}
	}
	return nil
}
