package layout

import (
	"fmt"
	"io"
	"strings"
)

// Section is one linker output section bound to exactly one region.
//
// The exported fields describe the section. Addresses are resolved lazily, so
// LoadAddress and ExecAddress may still be set after the section is added to
// its region, up to emission. Placement state (owning region, chain
// predecessor, terminal marker) is maintained by Region.AddSection only.
type Section struct {
	region *Region

	// Shadow, when set, makes this section a view: it carries the geometry of
	// Shadow in its own region while Shadow holds the content.
	Shadow *Section

	Name string

	// LoadAddress and ExecAddress are explicit linker expressions that
	// override the derived addresses.
	LoadAddress string
	ExecAddress string

	// Instances multiplies the section size, e.g. one block per core.
	Instances string

	StartSymbol string
	EndSymbol   string

	Content []string

	Align uint64
	index int
	prev  int

	UseAlias bool

	// LoadAddressDirect pins the load address to the execution address in the
	// region's base window.
	LoadAddressDirect bool

	isLast bool
}

// AddContent appends raw lines emitted verbatim inside the section body.
func (s *Section) AddContent(lines ...string) *Section {
	s.Content = append(s.Content, lines...)
	return s
}

// Region returns the owning region, nil before AddSection.
func (s *Section) Region() *Region {
	return s.region
}

// Prev returns the section declared immediately before s in the same region.
func (s *Section) Prev() *Section {
	if s.region == nil {
		return nil
	}
	return s.region.section(s.prev)
}

// IsLast reports whether s is the terminal section of its region.
func (s *Section) IsLast() bool {
	return s.isLast
}

// IsShadowView reports whether s only carries geometry for another section.
func (s *Section) IsShadowView() bool {
	return s.Shadow != nil
}

// OutputName is the linker name of the section.
func (s *Section) OutputName() string {
	return "." + s.Name
}

// Placement is the region or alias name the section is placed into.
func (s *Section) Placement() string {
	return s.region.AddressedName(s.UseAlias)
}

// Size is the linker expression for the space the section occupies.
func (s *Section) Size() string {
	name := s.OutputName()
	if s.Shadow != nil {
		name = s.Shadow.OutputName()
	}
	if s.Instances != "" {
		return fmt.Sprintf("(SIZEOF(%s) * %s)", name, s.Instances)
	}
	return fmt.Sprintf("SIZEOF(%s)", name)
}

// body returns the content that decides whether alignment is emitted. A view
// is judged by the content of its storage section.
func (s *Section) body() []string {
	if s.Shadow != nil {
		return s.Shadow.Content
	}
	return s.Content
}

// Emit writes the SECTIONS stanza.
func (s *Section) Emit(w io.Writer) error {
	var b strings.Builder

	b.WriteString("  ")
	b.WriteString(s.OutputName())
	if exec := s.ExecHierarchy(); exec != "" {
		b.WriteString(" (")
		b.WriteString(exec)
		b.WriteByte(')')
	}
	b.WriteString(" :")
	if load := s.LoadHierarchy(); load != "" {
		b.WriteString(" AT(")
		b.WriteString(load)
		b.WriteByte(')')
	}
	b.WriteString("\n  {\n")

	if s.Align != 0 && (len(s.body()) > 0 || s.StartSymbol != "" || s.EndSymbol != "") {
		fmt.Fprintf(&b, "    . = ALIGN(%d);\n", s.Align)
	}
	if s.StartSymbol != "" {
		fmt.Fprintf(&b, "    %s = .;\n", s.StartSymbol)
	}

	if !s.IsShadowView() {
		for _, line := range s.Content {
			b.WriteString("    ")
			b.WriteString(line)
			b.WriteByte('\n')
		}
		if s.EndSymbol != "" {
			fmt.Fprintf(&b, "    %s = .;\n", s.EndSymbol)
		}
		if s.isLast {
			fmt.Fprintf(&b, "    %s = ABSOLUTE(.);\n", s.region.EndSymbol())
		}
	}

	b.WriteString("  } > ")
	b.WriteString(s.Placement())
	b.WriteString("\n\n")

	_, err := io.WriteString(w, b.String())
	return err
}
