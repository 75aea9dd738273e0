package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/linkgen"
	"github.com/wippyai/linkgen/builder"
	"github.com/wippyai/linkgen/config"
)

// assignments collects repeated -set flags.
type assignments []string

func (a *assignments) String() string {
	return strings.Join(*a, ",")
}

func (a *assignments) Set(v string) error {
	*a = append(*a, v)
	return nil
}

type options struct {
	configFile  string
	layoutFile  string
	propsFile   string
	overrides   assignments
	verbose     bool
	dump        bool
	interactive bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configFile, "config", "", "Path to the platform configuration (JSON)")
	flag.StringVar(&opts.layoutFile, "o", "", "Path of the generated linker script")
	flag.StringVar(&opts.propsFile, "props", "", "Path of the generated properties file")
	flag.Var(&opts.overrides, "set", "Override a configuration key (path=value), may be repeated")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	flag.BoolVar(&opts.dump, "dump", false, "Print the memory map")
	flag.BoolVar(&opts.interactive, "i", false, "Interactive mode with TUI")
	flag.Parse()

	if opts.configFile == "" || (!opts.dump && !opts.interactive && (opts.layoutFile == "" || opts.propsFile == "")) {
		fmt.Fprintln(os.Stderr, "Usage: linkgen -config <platform.json> -o <link.ld> -props <config.ld> [-set path=value ...]")
		fmt.Fprintln(os.Stderr, "       linkgen -config <platform.json> -dump")
		fmt.Fprintln(os.Stderr, "       linkgen -config <platform.json> -i  (interactive mode)")
		os.Exit(1)
	}

	log, err := newLogger(opts.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	builder.SetLogger(log)

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	return cfg.Build()
}

func loadConfig(path string, overrides []string) (*config.Tree, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyOverrides(overrides); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(opts options, stdout io.Writer) error {
	cfg, err := loadConfig(opts.configFile, opts.overrides)
	if err != nil {
		return err
	}

	s, err := builder.Build(cfg)
	if err != nil {
		return err
	}

	if opts.interactive {
		return runInteractive(opts.configFile, s)
	}

	if opts.dump {
		styled := false
		if f, ok := stdout.(*os.File); ok {
			styled = term.IsTerminal(int(f.Fd()))
		}
		if err := dumpMemoryMap(stdout, s, styled); err != nil {
			return err
		}
	}

	if opts.layoutFile == "" || opts.propsFile == "" {
		return nil
	}
	ld, props, err := s.Render()
	if err != nil {
		return err
	}
	a := &linkgen.Artifacts{Layout: ld, Properties: props}
	return a.Commit(opts.layoutFile, opts.propsFile)
}
