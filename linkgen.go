package linkgen

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/wippyai/linkgen/builder"
	"github.com/wippyai/linkgen/config"
	"github.com/wippyai/linkgen/errors"
)

// Artifacts holds both rendered outputs.
type Artifacts struct {
	Layout     []byte
	Properties []byte
}

// Generate builds the layout from cfg and renders both artifacts in memory.
func Generate(cfg config.Config) (*Artifacts, error) {
	s, err := builder.Build(cfg)
	if err != nil {
		return nil, err
	}
	ld, props, err := s.Render()
	if err != nil {
		return nil, err
	}
	return &Artifacts{Layout: ld, Properties: props}, nil
}

// WriteFiles generates both artifacts and commits them to layoutPath and
// propsPath. Nothing is written when generation fails, and existing files are
// only replaced once both artifacts are staged.
func WriteFiles(cfg config.Config, layoutPath, propsPath string) error {
	a, err := Generate(cfg)
	if err != nil {
		return err
	}
	return a.Commit(layoutPath, propsPath)
}

// rename is replaced in tests to simulate a failing file system.
var rename = os.Rename

// commitStep tracks one destination while the artifacts are swapped in.
type commitStep struct {
	path      string
	staged    string
	backup    string
	committed bool
}

// Commit stages each artifact in a temporary file next to its destination
// and renames them into place. Existing destinations are moved aside first;
// if any rename fails, every destination is restored, so the layout and
// properties files are replaced together or not at all.
func (a *Artifacts) Commit(layoutPath, propsPath string) error {
	outputs := []struct {
		path string
		data []byte
	}{
		{layoutPath, a.Layout},
		{propsPath, a.Properties},
	}

	steps := make([]*commitStep, 0, len(outputs))
	for _, out := range outputs {
		tmp, err := stage(out.path, out.data)
		if err != nil {
			rollback(steps)
			return err
		}
		steps = append(steps, &commitStep{path: out.path, staged: tmp})
	}

	for _, st := range steps {
		if err := st.swap(); err != nil {
			rollback(steps)
			return errors.IO(st.path, err)
		}
	}
	for _, st := range steps {
		if st.backup != "" {
			os.Remove(st.backup)
		}
	}

	builder.Logger().Debug("artifacts written",
		zap.String("layout", layoutPath),
		zap.String("properties", propsPath))
	return nil
}

// swap moves the current destination aside and the staged file into place.
func (st *commitStep) swap() error {
	backup := st.staged + ".orig"
	switch err := rename(st.path, backup); {
	case err == nil:
		st.backup = backup
	case !os.IsNotExist(err):
		return err
	}
	if err := rename(st.staged, st.path); err != nil {
		return err
	}
	st.committed = true
	return nil
}

// rollback restores every destination to its state before Commit and drops
// the staged files.
func rollback(steps []*commitStep) {
	for _, st := range steps {
		switch {
		case st.backup != "":
			rename(st.backup, st.path)
		case st.committed:
			os.Remove(st.path)
		}
		os.Remove(st.staged)
	}
}

func stage(path string, data []byte) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return "", errors.IO(path, err)
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", errors.IO(path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", errors.IO(path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", errors.IO(path, err)
	}
	return f.Name(), nil
}
