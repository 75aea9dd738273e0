package script

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/wippyai/linkgen/layout"
)

func newScript(t *testing.T) (*Script, *layout.Region, *layout.Region) {
	t.Helper()
	s := New("riscv")
	l2, err := s.AddRegion(layout.NewRegion("L2", 0x1c000000, 0x100000))
	if err != nil {
		t.Fatal(err)
	}
	l1, err := s.AddRegion(layout.NewRegion("L1", 0x10000004, 0xfffc).SetAlias(0x4, 0xfffc))
	if err != nil {
		t.Fatal(err)
	}
	return s, l2, l1
}

func TestWriteLayout(t *testing.T) {
	s, l2, l1 := newScript(t)
	s.AddSection(l2, (&layout.Section{Name: "text"}).AddContent("*(.text)"))
	s.AddSection(l1, (&layout.Section{Name: "bss_l1"}).AddContent("*(.bss_l1)"))
	s.AddSection(l2, (&layout.Section{Name: "data"}).AddContent("*(.data)"))

	var b bytes.Buffer
	if err := s.WriteLayout(&b); err != nil {
		t.Fatal(err)
	}

	want := `OUTPUT_ARCH(riscv)
ENTRY( _start )

MEMORY
{
  L2 : ORIGIN = 0x1c000000, LENGTH = 0x00100000
  L1 : ORIGIN = 0x10000004, LENGTH = 0x0000fffc
  L1_aliased : ORIGIN = 0x00000004, LENGTH = 0x0000fffc
}

SECTIONS
{
  .text :
  {
    *(.text)
  } > L2

  .bss_l1 :
  {
    *(.bss_l1)
    __L1_end = ABSOLUTE(.);
  } > L1

  .data (ADDR(.text) + SIZEOF(.text)) :
  {
    *(.data)
    __L2_end = ABSOLUTE(.);
  } > L2

}
`
	if b.String() != want {
		t.Errorf("WriteLayout() =\n%s\nwant\n%s", b.String(), want)
	}
}

func TestSectionsKeepGlobalOrder(t *testing.T) {
	s, l2, l1 := newScript(t)
	order := []struct {
		r    *layout.Region
		name string
	}{{l2, "a"}, {l1, "b"}, {l2, "c"}, {l1, "d"}}
	for _, o := range order {
		s.AddSection(o.r, &layout.Section{Name: o.name})
	}

	var got []string
	for _, sec := range s.Sections() {
		got = append(got, sec.Name)
	}
	if !reflect.DeepEqual(got, []string{"a", "b", "c", "d"}) {
		t.Errorf("Sections() = %v", got)
	}

	var b bytes.Buffer
	if err := s.WriteLayout(&b); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	last := -1
	for _, name := range got {
		i := strings.Index(out, "  ."+name+" ")
		if i < last {
			t.Errorf("section %s emitted out of order", name)
		}
		last = i
	}
}

func TestWriteProperties(t *testing.T) {
	s := New("")
	s.AddVariable("__ZERO  = 0;")
	s.AddVariable("__rt_stack_size = 0x%x;", 0x800)
	s.AddVariable("GROUP( -lgloss -lgcc )")

	var b bytes.Buffer
	if err := s.WriteProperties(&b); err != nil {
		t.Fatal(err)
	}
	want := "__ZERO  = 0;\n__rt_stack_size = 0x800;\nGROUP( -lgloss -lgcc )\n\n"
	if b.String() != want {
		t.Errorf("WriteProperties() = %q, want %q", b.String(), want)
	}
}

func TestVariableWithPercentAndNoArgs(t *testing.T) {
	s := New("")
	s.AddVariable("__x = 10 % 3;")
	if s.Variables()[0] != "__x = 10 % 3;" {
		t.Errorf("variable without args must be kept verbatim, got %q", s.Variables()[0])
	}
}

func TestMemoryLookup(t *testing.T) {
	s, _, _ := newScript(t)

	if !reflect.DeepEqual(s.MemoryNames(), []string{"L2", "L1", "L1_aliased"}) {
		t.Errorf("MemoryNames() = %v", s.MemoryNames())
	}

	tests := []struct {
		name      string
		region    string
		alias, ok bool
	}{
		{"L2", "L2", false, true},
		{"L1", "L1", false, true},
		{"L1_aliased", "L1", true, true},
		{"L3", "", false, false},
	}
	for _, tt := range tests {
		r, alias, ok := s.Memory(tt.name)
		if ok != tt.ok || alias != tt.alias {
			t.Errorf("Memory(%q) alias=%v ok=%v", tt.name, alias, ok)
			continue
		}
		if ok && r.Name != tt.region {
			t.Errorf("Memory(%q) = %s, want %s", tt.name, r.Name, tt.region)
		}
	}
}

func TestAddRegionRejectsDuplicates(t *testing.T) {
	s, _, _ := newScript(t)
	if _, err := s.AddRegion(layout.NewRegion("L2", 0, 1)); err == nil {
		t.Error("duplicate region name should fail")
	}
	if _, err := s.AddRegion(layout.NewRegion("L1_aliased", 0, 1)); err == nil {
		t.Error("region named like an alias window should fail")
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	build := func() ([]byte, []byte) {
		s, l2, l1 := newScript(t)
		s.AddSection(l2, &layout.Section{Name: "text"})
		s.AddSection(l1, &layout.Section{Name: "tls", UseAlias: true, Instances: "8"})
		s.AddVariable("__NB_ACTIVE_PE = 8;")
		ld, props, err := s.Render()
		if err != nil {
			t.Fatal(err)
		}
		return ld, props
	}

	ld1, p1 := build()
	ld2, p2 := build()
	if !bytes.Equal(ld1, ld2) || !bytes.Equal(p1, p2) {
		t.Error("two renders of the same script differ")
	}
}
