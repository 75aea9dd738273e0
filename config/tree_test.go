package config

import (
	"errors"
	"reflect"
	"testing"

	lgerrors "github.com/wippyai/linkgen/errors"
)

const sample = `{
	"platform": "gvsoc",
	"stack_size": "0x800",
	"l2": {"size": 524288, "map_base": "0x1C000000"},
	"cluster": {"nb_pe": 8, "has_l1_alias": "true", "l1": {"size": "0x10000"}},
	"rt": {
		"iodevs": {
			"uart": {"value": 1, "channel": 0, "baudrate": 115200},
			"default": {"value": 0}
		},
		"traces": "init,alloc",
		"libc": false
	},
	"user-sections": ["foo@L2", "bar@L1"],
	"empty": null
}`

func mustParse(t *testing.T, doc string) *Tree {
	t.Helper()
	tree, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return tree
}

func TestTreeGetInt(t *testing.T) {
	tree := mustParse(t, sample)

	tests := []struct {
		path   string
		want   int64
		wantOk bool
	}{
		{"stack_size", 0x800, true},
		{"l2/size", 524288, true},
		{"l2/map_base", 0x1C000000, true},
		{"cluster/nb_pe", 8, true},
		{"cluster/l1/size", 0x10000, true},
		{"cluster/l1/map_base", 0, false},
		{"missing", 0, false},
		{"empty", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok, err := tree.GetInt(tt.path)
			if err != nil {
				t.Fatalf("GetInt(%q) error: %v", tt.path, err)
			}
			if ok != tt.wantOk {
				t.Errorf("GetInt(%q) ok = %v, want %v", tt.path, ok, tt.wantOk)
			}
			if got != tt.want {
				t.Errorf("GetInt(%q) = %#x, want %#x", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"0", 0, false},
		{"42", 42, false},
		{"010", 10, false},
		{"0x10", 16, false},
		{"0X1c00_0000", 0x1C000000, false},
		{"-4", -4, false},
		{" 7 ", 7, false},
		{"0xZZ", 0, true},
		{"12abc", 0, true},
		{"", 0, true},
		{"0x8000000000000000", 0, true},
		{"1e3", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseInt("key", tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseInt(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseInt(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestTreeMalformedIntNamesPath(t *testing.T) {
	tree := mustParse(t, `{"l2": {"size": "0xnope"}}`)

	_, ok, err := tree.GetInt("l2/size")
	if !ok {
		t.Error("malformed value should still be reported present")
	}
	var lerr *lgerrors.Error
	if !errors.As(err, &lerr) {
		t.Fatalf("expected *errors.Error, got %T (%v)", err, err)
	}
	if lerr.Kind != lgerrors.KindInvalidData {
		t.Errorf("Kind = %v, want %v", lerr.Kind, lgerrors.KindInvalidData)
	}
	if !reflect.DeepEqual(lerr.Path, []string{"l2", "size"}) {
		t.Errorf("Path = %v, want [l2 size]", lerr.Path)
	}
}

func TestTreeStructuralMismatch(t *testing.T) {
	tree := mustParse(t, `{"cluster": 4}`)

	_, _, err := tree.GetInt("cluster/nb_pe")
	if !errors.Is(err, &lgerrors.Error{Phase: lgerrors.PhaseConfig, Kind: lgerrors.KindTypeMismatch}) {
		t.Fatalf("expected config type mismatch, got %v", err)
	}
}

func TestTreeNullIntermediateIsAbsent(t *testing.T) {
	tree := mustParse(t, `{"fc": null, "cluster": {"l1": null}}`)

	tests := []string{"fc", "fc/archi", "cluster/l1/size", "cluster/l1/map_base/x"}
	for _, path := range tests {
		if v, ok, err := tree.GetString(path); err != nil || ok {
			t.Errorf("GetString(%q) = %q, %v, %v; want absent", path, v, ok, err)
		}
		if tree.Has(path) {
			t.Errorf("Has(%q) = true", path)
		}
	}
}

func TestTreeGetBool(t *testing.T) {
	tree := mustParse(t, sample)

	if v, ok, err := tree.GetBool("cluster/has_l1_alias"); err != nil || !ok || !v {
		t.Errorf("has_l1_alias = %v, %v, %v", v, ok, err)
	}
	if v, ok, err := tree.GetBool("rt/libc"); err != nil || !ok || v {
		t.Errorf("rt/libc = %v, %v, %v", v, ok, err)
	}
	if _, ok, err := tree.GetBool("rt/werror"); err != nil || ok {
		t.Errorf("rt/werror should be absent, got ok=%v err=%v", ok, err)
	}
	if _, _, err := tree.GetBool("platform"); err == nil {
		t.Error("GetBool on \"gvsoc\" should fail")
	}
}

func TestTreeGetString(t *testing.T) {
	tree := mustParse(t, sample)

	tests := []struct {
		path string
		want string
	}{
		{"platform", "gvsoc"},
		{"rt/iodevs/uart/baudrate", "115200"},
		{"rt/libc", "false"},
	}
	for _, tt := range tests {
		got, ok, err := tree.GetString(tt.path)
		if err != nil || !ok || got != tt.want {
			t.Errorf("GetString(%q) = %q, %v, %v; want %q", tt.path, got, ok, err, tt.want)
		}
	}

	if _, _, err := tree.GetString("rt/iodevs"); err == nil {
		t.Error("GetString on a table should fail")
	}
}

func TestTreeGetList(t *testing.T) {
	tree := mustParse(t, sample)

	got, ok, err := tree.GetList("user-sections")
	if err != nil || !ok {
		t.Fatalf("GetList: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, []string{"foo@L2", "bar@L1"}) {
		t.Errorf("user-sections = %v", got)
	}

	got, _, err = tree.GetList("rt/traces")
	if err != nil || !reflect.DeepEqual(got, []string{"init", "alloc"}) {
		t.Errorf("rt/traces = %v, %v", got, err)
	}
}

func TestTreeKeysPreserveDocumentOrder(t *testing.T) {
	tree := mustParse(t, sample)

	keys, ok, err := tree.Keys("rt/iodevs")
	if err != nil || !ok {
		t.Fatalf("Keys: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(keys, []string{"uart", "default"}) {
		t.Errorf("Keys(rt/iodevs) = %v, want [uart default]", keys)
	}

	keys, _, _ = tree.Keys("rt/iodevs/uart")
	if !reflect.DeepEqual(keys, []string{"value", "channel", "baudrate"}) {
		t.Errorf("Keys(rt/iodevs/uart) = %v", keys)
	}
}

func TestTreeSetAndOverrides(t *testing.T) {
	tree := mustParse(t, sample)

	if err := tree.ApplyOverrides([]string{"platform=rtl", "fc/archi=riscv", "cluster/nb_pe=0x4"}); err != nil {
		t.Fatalf("ApplyOverrides: %v", err)
	}
	if s, _, _ := tree.GetString("platform"); s != "rtl" {
		t.Errorf("platform = %q, want rtl", s)
	}
	if s, _, _ := tree.GetString("fc/archi"); s != "riscv" {
		t.Errorf("fc/archi = %q, want riscv", s)
	}
	if n, _, _ := tree.GetInt("cluster/nb_pe"); n != 4 {
		t.Errorf("cluster/nb_pe = %d, want 4", n)
	}
	if err := tree.ApplyOverrides([]string{"platform/sub=1"}); err == nil {
		t.Error("setting below a scalar should fail")
	}
	if err := tree.ApplyOverrides([]string{"noequals"}); err == nil {
		t.Error("override without '=' should fail")
	}
}

func TestParseRejectsBadDocuments(t *testing.T) {
	for _, doc := range []string{`[1, 2]`, `{"a": 1} {"b": 2}`, `{"a": }`, ``} {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("Parse(%q) should fail", doc)
		}
	}
}

func TestIntAs(t *testing.T) {
	tree := mustParse(t, `{"small": 200, "big": "0x1_0000_0000", "neg": -1}`)

	if v, ok, err := IntAs[uint8](tree, "small"); err != nil || !ok || v != 200 {
		t.Errorf("IntAs[uint8](small) = %d, %v, %v", v, ok, err)
	}
	if _, _, err := IntAs[int8](tree, "small"); err == nil {
		t.Error("IntAs[int8](200) should overflow")
	}
	if _, _, err := IntAs[uint32](tree, "big"); err == nil {
		t.Error("IntAs[uint32](1<<32) should overflow")
	}
	if v, _, err := IntAs[uint64](tree, "big"); err != nil || v != 1<<32 {
		t.Errorf("IntAs[uint64](big) = %d, %v", v, err)
	}
	if _, _, err := IntAs[uint32](tree, "neg"); err == nil {
		t.Error("IntAs[uint32](-1) should overflow")
	}
	if _, ok, err := IntAs[int](tree, "absent"); ok || err != nil {
		t.Errorf("absent key: ok=%v err=%v", ok, err)
	}
}
