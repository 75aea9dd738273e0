package builder

import (
	"go.uber.org/zap"

	"github.com/wippyai/linkgen/config"
	"github.com/wippyai/linkgen/errors"
)

// Platform codes understood by the runtime.
var platforms = map[string]int{
	"fpga":  1,
	"rtl":   2,
	"gvsoc": 3,
	"board": 4,
}

// Trace channels selectable through rt/traces.
var traceBits = map[string]uint32{
	"init":  1 << 0,
	"alloc": 1 << 1,
}

const traceAllChannel = "all"

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func (b *Builder) declareVariables() error {
	s := b.script

	s.AddVariable("__ZERO  = 0;")
	s.AddVariable("__USE_UART = 0;")
	s.AddVariable("__RT_DEBUG_CONFIG   = (0 << 8) | 0;")
	s.AddVariable("__FC   = 1;")
	s.AddVariable("__L2   = 0x80000;")
	s.AddVariable("__L1Cl = 0x10000;")
	s.AddVariable("__FETCH_ALL = 0x0;")
	s.AddVariable("__ACTIVE_FC = 0x1;")

	stack, ok, err := config.IntAs[uint64](b.cfg, "stack_size")
	if err != nil {
		return err
	}
	if !ok {
		return errors.FieldMissing(errors.PhaseBuild, "stack_size")
	}
	s.AddVariable("__rt_stack_size = 0x%x;", stack)

	if b.hasNbPE {
		s.AddVariable("__NB_ACTIVE_PE = %d;", b.nbPE)
	}

	platform, _, err := b.cfg.GetString("platform")
	if err != nil {
		return err
	}
	s.AddVariable("__rt_platform = %d;", platforms[platform])

	if err := b.declareIODevs(); err != nil {
		return err
	}

	nbCluster, ok, err := b.cfg.GetInt("nb_cluster")
	if err != nil {
		return err
	}
	if ok && nbCluster != 0 {
		if !b.hasNbPE {
			return errors.FieldMissing(errors.PhaseBuild, "cluster/nb_pe")
		}
		s.AddVariable("__rt_nb_cluster = %d;", nbCluster)
		s.AddVariable("__rt_nb_pe = %d;", b.nbPE)
	}

	for _, stackKey := range []struct{ path, name string }{
		{"rt/cl_master_stack_size", "__rt_cl_master_stack_size"},
		{"rt/cl_slave_stack_size", "__rt_cl_slave_stack_size"},
	} {
		v, ok, err := config.IntAs[uint64](b.cfg, stackKey.path)
		if err != nil {
			return err
		}
		if ok {
			s.AddVariable("%s = 0x%x;", stackKey.name, v)
		}
	}

	rtConfig, err := b.bootFlags()
	if err != nil {
		return err
	}
	debugConfig, err := b.debugConfig()
	if err != nil {
		return err
	}
	traces, err := b.traceMask()
	if err != nil {
		return err
	}
	s.AddVariable("__rt_config = 0x%x;", rtConfig)
	s.AddVariable("__rt_debug_init_config = 0x%x;", debugConfig)
	s.AddVariable("__rt_debug_init_config_trace = 0x%x;", traces)

	libc, _, err := b.cfg.GetBool("rt/libc")
	if err != nil {
		return err
	}
	if libc {
		s.AddVariable("GROUP( -lc -lgloss -lgcc )")
	} else {
		s.AddVariable("GROUP( -lgloss -lgcc )")
	}
	return nil
}

// declareIODevs emits the selected IO device and every parameter of every
// configured device, in configuration order.
func (b *Builder) declareIODevs() error {
	iodev, ok, err := b.cfg.GetString("rt/iodev")
	if err != nil {
		return err
	}
	if !ok {
		b.log.Debug("no io device selected")
		return nil
	}

	devs, ok, err := b.cfg.Keys("rt/iodevs")
	if err != nil {
		return err
	}
	if !ok {
		return errors.NotFound(errors.PhaseBuild, "rt/iodevs", "iodev", iodev)
	}

	found := false
	for _, name := range devs {
		if name == iodev {
			found = true
			break
		}
	}
	if !found {
		return errors.NotFound(errors.PhaseBuild, "rt/iodevs", "iodev", iodev)
	}

	valuePath := "rt/iodevs/" + iodev + "/value"
	value, ok, err := b.cfg.GetString(valuePath)
	if err != nil {
		return err
	}
	if !ok {
		return errors.FieldMissing(errors.PhaseBuild, valuePath)
	}
	b.script.AddVariable("__rt_iodev = %s;", value)

	for _, name := range devs {
		items, _, err := b.cfg.Keys("rt/iodevs/" + name)
		if err != nil {
			return err
		}
		for _, item := range items {
			v, _, err := b.cfg.GetString("rt/iodevs/" + name + "/" + item)
			if err != nil {
				return err
			}
			b.script.AddVariable("__rt_iodev_%s_%s = %s;", name, item, v)
		}
	}
	return nil
}

// bootFlags computes __rt_config: bit 0 starts the cluster, bit 1 keeps the
// control core running.
func (b *Builder) bootFlags() (uint32, error) {
	startAll, _, err := b.cfg.GetBool("rt/start-all")
	if err != nil {
		return 0, err
	}
	if !b.cfg.Has("soc/cluster") || !startAll {
		return 0, nil
	}

	fcStart, fcStartSet, err := b.cfg.GetBool("rt/fc-start")
	if err != nil {
		return 0, err
	}
	clusterStart, _, err := b.cfg.GetBool("rt/cluster-start")
	if err != nil {
		return 0, err
	}

	var flags uint32
	if (fcStartSet && !fcStart) || clusterStart {
		flags |= 1 << 0
	}
	if fcStart {
		flags |= 1 << 1
	}
	return flags, nil
}

func (b *Builder) debugConfig() (int, error) {
	warnings, _, err := b.cfg.GetBool("rt/warnings")
	if err != nil {
		return 0, err
	}
	werror, _, err := b.cfg.GetBool("rt/werror")
	if err != nil {
		return 0, err
	}
	return boolInt(warnings)<<0 | boolInt(werror)<<1, nil
}

func (b *Builder) traceMask() (uint32, error) {
	enabled, _, err := b.cfg.GetBool("rt/trace")
	if err != nil || !enabled {
		return 0, err
	}

	traces, ok, err := b.cfg.GetList("rt/traces")
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0xffffffff, nil
	}

	var mask uint32
	for _, name := range traces {
		if name == traceAllChannel {
			return 0xffffffff, nil
		}
		bit, known := traceBits[name]
		if !known {
			b.log.Debug("unknown trace channel ignored", zap.String("trace", name))
			continue
		}
		mask |= bit
	}
	return mask, nil
}
