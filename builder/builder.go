package builder

import (
	"go.uber.org/zap"

	"github.com/wippyai/linkgen/config"
	"github.com/wippyai/linkgen/errors"
	"github.com/wippyai/linkgen/layout"
	"github.com/wippyai/linkgen/script"
)

// Mode selects what the generated binary runs on.
type Mode string

const (
	// ModeFabric builds for the SoC fabric: control core, cluster and their
	// local memories.
	ModeFabric Mode = "fabric"
	// ModeHost builds an image placed entirely in the shared L2 memory.
	ModeHost Mode = "host"
)

// Builder declares regions, sections and variables from a configuration.
type Builder struct {
	cfg    config.Config
	script *script.Script
	log    *zap.Logger

	mode  Mode
	hasFC bool

	priv0, priv1, l2, fcTcdm, l1 *layout.Region

	shadowed []shadowed

	nbPE    int
	hasNbPE bool
}

// Build runs the complete declaration sequence and returns the script ready
// for rendering. Nothing is rendered on error.
func Build(cfg config.Config) (*script.Script, error) {
	b, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if err := b.Run(); err != nil {
		return nil, err
	}
	return b.Script(), nil
}

// New reads the platform discriminants.
func New(cfg config.Config) (*Builder, error) {
	arch, ok, err := cfg.GetString("fc/archi")
	if err != nil {
		return nil, err
	}
	hasFC := ok
	if !ok {
		if arch, _, err = cfg.GetString("pe/archi"); err != nil {
			return nil, err
		}
	}

	mode := ModeFabric
	if s, ok, err := cfg.GetString("build"); err != nil {
		return nil, err
	} else if ok {
		mode = Mode(s)
	}
	if mode != ModeFabric && mode != ModeHost {
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidData).
			Path("build").
			Want("host or fabric").
			Value(string(mode)).
			Detail("unknown build mode %q", mode).
			Build()
	}

	nbPE, hasNbPE, err := config.IntAs[int](cfg, "cluster/nb_pe")
	if err != nil {
		return nil, err
	}

	return &Builder{
		cfg:     cfg,
		script:  script.New(arch),
		log:     Logger().With(zap.String("mode", string(mode))),
		mode:    mode,
		hasFC:   hasFC,
		nbPE:    nbPE,
		hasNbPE: hasNbPE,
	}, nil
}

// Script returns the script being built.
func (b *Builder) Script() *script.Script {
	return b.script
}

// Run declares variables, memories, platform sections, user sections and
// finally the L2 views of shadowed sections, in that order. Addresses are
// derived from declaration order, so the order of these steps is part of the
// output format.
func (b *Builder) Run() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"variables", b.declareVariables},
		{"memories", b.declareMemories},
		{"sections", b.declareSections},
		{"user-sections", b.declareUserSections},
		{"views", b.declareViews},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			b.log.Debug("build step failed", zap.String("step", step.name), zap.Error(err))
			return err
		}
	}

	b.log.Info("layout built",
		zap.Int("regions", len(b.script.Regions())),
		zap.Int("sections", len(b.script.Sections())),
		zap.Int("variables", len(b.script.Variables())))
	return nil
}

// place appends sec to r, or drops it when the region was not declared for
// this platform.
func (b *Builder) place(r *layout.Region, sec *layout.Section) *layout.Section {
	if r == nil {
		b.log.Debug("section skipped, memory not present", zap.String("section", sec.Name))
		return nil
	}
	return b.script.AddSection(r, sec)
}
