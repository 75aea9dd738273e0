package builder

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/linkgen/errors"
	"github.com/wippyai/linkgen/layout"
)

const userSectionAlign = 4

// input returns the usual input section patterns for name.
func input(name string) []string {
	return []string{"*(." + name + ")", "*(." + name + ".*)"}
}

func (b *Builder) declareSections() error {
	if b.mode == ModeHost {
		b.declareHostSections()
		return nil
	}
	b.declareFabricSections()
	return nil
}

func (b *Builder) declareHostSections() {
	b.declareCode(b.l2)
	b.declareData(b.l2)
}

// declareFabricSections places code in the private code bank and data in the
// private data bank when they exist, L2 otherwise. Data for the control core
// tightly coupled memory and the cluster L1 is stored in L2 and copied at boot.
func (b *Builder) declareFabricSections() {
	code, data := b.l2, b.l2
	if b.priv1 != nil {
		code = b.priv1
	}
	if b.priv0 != nil {
		data = b.priv0
	}

	b.place(code, (&layout.Section{Name: "vectors", Align: 256, StartSymbol: "__irq_vector_base"}).
		AddContent("KEEP(*(.vectors))"))
	b.declareText(code)

	b.declareReadOnly(data)
	if b.fcTcdm != nil {
		b.declareShadowStorage(b.fcTcdm, "data_tiny_fc", nil)
	}
	b.declareData(data)

	b.place(b.l2, (&layout.Section{
		Name:        "l2_data",
		Align:       4,
		StartSymbol: "__l2_data_start",
		EndSymbol:   "__l2_data_end",
	}).AddContent(input("l2_data")...))

	if b.l1 != nil {
		b.declareClusterSections()
	}
}

func (b *Builder) declareCode(r *layout.Region) {
	b.declareText(r)
	b.declareReadOnly(r)
}

func (b *Builder) declareText(r *layout.Region) {
	b.place(r, (&layout.Section{Name: "text", Align: 4, StartSymbol: "_stext", EndSymbol: "_etext"}).
		AddContent(input("text")...).
		AddContent("*(.text.startup)", "*(.gnu.linkonce.t.*)"))
}

// declareReadOnly declares constants and, outside host builds, the
// constructor and destructor tables.
func (b *Builder) declareReadOnly(r *layout.Region) {
	b.place(r, (&layout.Section{Name: "rodata", Align: 4}).
		AddContent(input("rodata")...).
		AddContent(input("srodata")...))
	if b.mode == ModeHost {
		return
	}
	b.place(r, (&layout.Section{Name: "init_array", Align: 4}).AddContent(
		"PROVIDE_HIDDEN (__init_array_start = .);",
		"KEEP(*(SORT(.init_array.*)))",
		"KEEP(*(.init_array))",
		"PROVIDE_HIDDEN (__init_array_end = .);",
	))
	b.place(r, (&layout.Section{Name: "fini_array", Align: 4}).AddContent(
		"PROVIDE_HIDDEN (__fini_array_start = .);",
		"KEEP(*(SORT(.fini_array.*)))",
		"KEEP(*(.fini_array))",
		"PROVIDE_HIDDEN (__fini_array_end = .);",
	))
}

func (b *Builder) declareData(r *layout.Region) {
	b.place(r, (&layout.Section{Name: "data", Align: 4, StartSymbol: "sdata", EndSymbol: "edata"}).
		AddContent(input("data")...).
		AddContent(input("sdata")...))
	b.place(r, (&layout.Section{Name: "bss", Align: 8, StartSymbol: "_bss_start", EndSymbol: "_bss_end"}).
		AddContent(input("bss")...).
		AddContent(input("sbss")...).
		AddContent("*(COMMON)"))
	b.place(r, (&layout.Section{Name: "stack", Align: 16, StartSymbol: "stack_start", EndSymbol: "stack"}).
		AddContent(". = . + __rt_stack_size;"))
}

// shadowed is a storage section waiting for its view in L2. follower, when
// set, is loaded right after the view.
type shadowed struct {
	storage  *layout.Section
	follower *layout.Section
}

// declareShadowStorage places the storage section name in r. Its view is
// declared later by declareViews.
func (b *Builder) declareShadowStorage(r *layout.Region, name string, follower *layout.Section) *layout.Section {
	storage := b.place(r, (&layout.Section{
		Name:        name,
		Align:       4,
		StartSymbol: "_" + name + "_start",
		EndSymbol:   "_" + name + "_end",
	}).AddContent(input(name)...))
	if storage != nil {
		b.shadowed = append(b.shadowed, shadowed{storage: storage, follower: follower})
	}
	return storage
}

func (b *Builder) declareClusterSections() {
	preload := (&layout.Section{
		Name:        "l1cluster_g",
		Align:       4,
		StartSymbol: "__l1_preload_start",
		EndSymbol:   "__l1_preload_end",
	}).AddContent(input("l1cluster.g")...).AddContent(input("data_l1")...)

	b.declareShadowStorage(b.l1, "data_tiny_l1", preload)
	b.place(b.l1, preload)

	tls := (&layout.Section{
		Name:        "tls",
		Align:       4,
		StartSymbol: "__tls_start",
		EndSymbol:   "__tls_end",
		UseAlias:    b.l1.HasAlias(),
	}).AddContent(input("tls")...).AddContent(input("tbss")...)
	if b.hasNbPE {
		tls.Instances = strconv.Itoa(b.nbPE)
		b.script.AddVariable("__rt_tls_instances = %d;", b.nbPE)
	}
	b.place(b.l1, tls)

	b.place(b.l1, (&layout.Section{Name: "bss_l1", Align: 8, StartSymbol: "_bss_l1_start", EndSymbol: "_bss_l1_end"}).
		AddContent(input("bss_l1")...))
}

// declareViews closes L2: the views of every shadowed section, back to back,
// then the L2 heap. A view anchors its successor at ORIGIN(L2), so every
// section after the first view is pinned to the end of the one before it.
// Storage sections load from their view and followers right after it.
func (b *Builder) declareViews() error {
	if b.mode == ModeHost || b.l2 == nil {
		return nil
	}

	var last *layout.Section
	for _, sh := range b.shadowed {
		view := &layout.Section{Name: sh.storage.Name, Align: 4, Shadow: sh.storage}
		if last != nil {
			view.ExecAddress = last.End()
		}
		b.script.AddSection(b.l2, view)

		sh.storage.LoadAddress = view.Start()
		if sh.follower != nil {
			sh.follower.LoadAddress = view.End()
		}
		last = view
	}

	heap := (&layout.Section{
		Name:        "heapl2ram",
		Align:       4,
		StartSymbol: "__heapl2ram_start",
		EndSymbol:   "__heapl2ram_end",
	}).AddContent(input("heapl2ram")...)
	if last != nil {
		heap.ExecAddress = last.End()
	}
	b.script.AddSection(b.l2, heap)
	return nil
}

// UserSection is one name@memory entry of the user-sections list.
type UserSection struct {
	Name   string
	Memory string
}

// ParseUserSection splits a name@memory token.
func ParseUserSection(token string) (UserSection, error) {
	name, memory, ok := strings.Cut(strings.TrimSpace(token), "@")
	name, memory = strings.TrimSpace(name), strings.TrimSpace(memory)
	if !ok || name == "" || memory == "" || strings.Contains(memory, "@") {
		return UserSection{}, errors.New(errors.PhaseConfig, errors.KindInvalidData).
			Path("user-sections").
			Want("name@memory").
			Value(token).
			Detail("malformed user section %q", token).
			Build()
	}
	return UserSection{Name: name, Memory: memory}, nil
}

// declareUserSections appends the configured user sections in list order.
// Every memory must exist on the current platform.
func (b *Builder) declareUserSections() error {
	tokens, ok, err := b.cfg.GetList("user-sections")
	if err != nil || !ok {
		return err
	}

	for _, token := range tokens {
		us, err := ParseUserSection(token)
		if err != nil {
			return err
		}
		r, alias, found := b.script.Memory(us.Memory)
		if !found {
			return errors.NewUnknownMemoryError(us.Name, us.Memory, b.script.MemoryNames())
		}

		b.script.AddSection(r, (&layout.Section{
			Name:        us.Name,
			Align:       userSectionAlign,
			StartSymbol: fmt.Sprintf("__%s_start", us.Name),
			EndSymbol:   fmt.Sprintf("__%s_end", us.Name),
			UseAlias:    alias,
		}).AddContent(input(us.Name)...))
		b.script.AddVariable("__rt_user_section_%s = 1;", us.Name)

		b.log.Debug("user section declared",
			zap.String("section", us.Name),
			zap.String("memory", us.Memory))
	}
	return nil
}
