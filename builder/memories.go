package builder

import (
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/linkgen/config"
	"github.com/wippyai/linkgen/errors"
	"github.com/wippyai/linkgen/layout"
)

// l1Reserved is the head of the cluster L1 kept by the runtime.
const l1Reserved = 4

type memorySpec struct {
	name string
	key  string
	dst  **layout.Region
	// reserved bytes skipped at the start of the region and its alias window
	reserved uint64
	// aliasKey gates the alias window, nil when the memory has none
	aliasKey func(b *Builder) (bool, error)
}

func (b *Builder) memories() []memorySpec {
	if b.mode == ModeHost {
		return []memorySpec{{name: "L2", key: "l2", dst: &b.l2}}
	}

	specs := []memorySpec{
		{name: "L2_priv0", key: "l2_priv0", dst: &b.priv0},
		{name: "L2_priv1", key: "l2_priv1", dst: &b.priv1},
		{name: "L2", key: "l2", dst: &b.l2},
	}
	if b.hasFC {
		specs = append(specs, memorySpec{
			name: "FC_tcdm",
			key:  "fc_tcdm",
			dst:  &b.fcTcdm,
			aliasKey: func(b *Builder) (bool, error) {
				return b.cfg.Has("fc_tcdm/alias_base"), nil
			},
		})
	}
	specs = append(specs, memorySpec{
		name:     "L1",
		key:      "cluster/l1",
		dst:      &b.l1,
		reserved: l1Reserved,
		aliasKey: func(b *Builder) (bool, error) {
			v, _, err := b.cfg.GetBool("cluster/has_l1_alias")
			return v, err
		},
	})
	return specs
}

func (b *Builder) declareMemories() error {
	for _, m := range b.memories() {
		r, err := b.declareMemory(m)
		if err != nil {
			return err
		}
		*m.dst = r
	}
	return nil
}

// declareMemory declares one region from <key>/size and <key>/map_base. An
// unset size skips the region.
func (b *Builder) declareMemory(m memorySpec) (*layout.Region, error) {
	size, ok, err := config.IntAs[uint64](b.cfg, m.key+"/size")
	if err != nil {
		return nil, err
	}
	if !ok {
		b.log.Debug("memory not configured", zap.String("memory", m.name))
		return nil, nil
	}
	base, ok, err := config.IntAs[uint64](b.cfg, m.key+"/map_base")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.FieldMissing(errors.PhaseBuild, m.key+"/map_base")
	}
	if size < m.reserved {
		return nil, errors.InvalidData(errors.PhaseBuild, m.key+"/size", "memory smaller than its reserved header")
	}

	r := layout.NewRegion(m.name, base+m.reserved, size-m.reserved)

	if m.aliasKey != nil {
		hasAlias, err := m.aliasKey(b)
		if err != nil {
			return nil, err
		}
		if hasAlias {
			aliasBase, _, err := config.IntAs[uint64](b.cfg, m.key+"/alias_base")
			if err != nil {
				return nil, err
			}
			r.SetAlias(aliasBase+m.reserved, size-m.reserved)
		}
	}

	if _, err := b.script.AddRegion(r); err != nil {
		return nil, err
	}

	lower := strings.ToLower(m.name)
	b.script.AddVariable("__rt_%s_base = 0x%x;", lower, base)
	b.script.AddVariable("__rt_%s_size = 0x%x;", lower, size)

	b.log.Debug("memory declared",
		zap.String("memory", m.name),
		zap.Uint64("origin", r.Origin),
		zap.Uint64("length", r.Length),
		zap.Bool("alias", r.HasAlias()))
	return r, nil
}
