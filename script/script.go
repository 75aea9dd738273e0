package script

import (
	"bytes"
	"fmt"
	"io"

	"github.com/wippyai/linkgen/errors"
	"github.com/wippyai/linkgen/layout"
)

// DefaultEntry is the program entry symbol.
const DefaultEntry = "_start"

// Script collects regions, sections in global declaration order and
// properties variables, and renders them.
type Script struct {
	Arch      string
	Entry     string
	regions   []*layout.Region
	sections  []*layout.Section
	variables []string
}

// New creates an empty script for the given core family.
func New(arch string) *Script {
	return &Script{Arch: arch, Entry: DefaultEntry}
}

// AddRegion declares a memory region. Region names are unique.
func (s *Script) AddRegion(r *layout.Region) (*layout.Region, error) {
	for _, existing := range s.regions {
		if existing.Name == r.Name || (existing.HasAlias() && existing.AliasName() == r.Name) {
			return nil, errors.InvalidData(errors.PhaseBuild, "", fmt.Sprintf("memory %q declared twice", r.Name))
		}
	}
	s.regions = append(s.regions, r)
	return r, nil
}

// Regions returns the declared regions in order.
func (s *Script) Regions() []*layout.Region {
	return s.regions
}

// Region finds a region by name.
func (s *Script) Region(name string) (*layout.Region, bool) {
	for _, r := range s.regions {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// Memory resolves a memory name as written by users: a region name, or the
// name of a region's alias window. The flag reports the alias window.
func (s *Script) Memory(name string) (*layout.Region, bool, bool) {
	for _, r := range s.regions {
		if r.Name == name {
			return r, false, true
		}
		if r.HasAlias() && r.AliasName() == name {
			return r, true, true
		}
	}
	return nil, false, false
}

// MemoryNames lists every addressable memory name in declaration order,
// alias windows right after their region.
func (s *Script) MemoryNames() []string {
	names := make([]string, 0, len(s.regions))
	for _, r := range s.regions {
		names = append(names, r.Name)
		if r.HasAlias() {
			names = append(names, r.AliasName())
		}
	}
	return names
}

// AddSection appends sec to r and to the global emission order.
func (s *Script) AddSection(r *layout.Region, sec *layout.Section) *layout.Section {
	r.AddSection(sec)
	s.sections = append(s.sections, sec)
	return sec
}

// Sections returns every section in global declaration order.
func (s *Script) Sections() []*layout.Section {
	return s.sections
}

// AddVariable appends one properties line.
func (s *Script) AddVariable(format string, args ...any) {
	if len(args) > 0 {
		format = fmt.Sprintf(format, args...)
	}
	s.variables = append(s.variables, format)
}

// Variables returns the properties lines in declaration order.
func (s *Script) Variables() []string {
	return s.variables
}

// WriteLayout writes the linker script: header, MEMORY table, then one
// stanza per section in declaration order.
func (s *Script) WriteLayout(w io.Writer) error {
	var b bytes.Buffer

	if s.Arch != "" {
		fmt.Fprintf(&b, "OUTPUT_ARCH(%s)\n", s.Arch)
	}
	if s.Entry != "" {
		fmt.Fprintf(&b, "ENTRY( %s )\n", s.Entry)
	}
	b.WriteString("\nMEMORY\n{\n")
	for _, r := range s.regions {
		if err := r.Emit(&b); err != nil {
			return err
		}
	}
	b.WriteString("}\n\nSECTIONS\n{\n")
	for _, sec := range s.sections {
		if err := sec.Emit(&b); err != nil {
			return err
		}
	}
	b.WriteString("}\n")

	_, err := w.Write(b.Bytes())
	return err
}

// WriteProperties writes one line per variable followed by a blank line.
func (s *Script) WriteProperties(w io.Writer) error {
	var b bytes.Buffer
	for _, v := range s.variables {
		b.WriteString(v)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	_, err := w.Write(b.Bytes())
	return err
}

// Render produces both artifacts in memory.
func (s *Script) Render() (ld []byte, props []byte, err error) {
	var lb, pb bytes.Buffer
	if err := s.WriteLayout(&lb); err != nil {
		return nil, nil, errors.Wrap(errors.PhaseEmit, errors.KindIO, err, "render layout")
	}
	if err := s.WriteProperties(&pb); err != nil {
		return nil, nil, errors.Wrap(errors.PhaseEmit, errors.KindIO, err, "render properties")
	}
	return lb.Bytes(), pb.Bytes(), nil
}
