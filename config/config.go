package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"

	"github.com/wippyai/linkgen/errors"
)

// Config is the typed, path-addressed view of a hardware/software
// configuration. Paths are slash separated ("cluster/nb_pe").
//
// Every getter reports presence separately from failure: an unset key returns
// ok=false and a nil error, a key holding a value of the wrong shape returns
// an error naming the offending path.
type Config interface {
	GetString(path string) (string, bool, error)
	GetInt(path string) (int64, bool, error)
	GetBool(path string) (bool, bool, error)
	GetList(path string) ([]string, bool, error)
	// Keys returns the child keys of a table in document order.
	Keys(path string) ([]string, bool, error)
	Has(path string) bool
}

// IntAs reads an integer and converts it to T, failing when the value does
// not fit.
func IntAs[T constraints.Integer](c Config, path string) (T, bool, error) {
	v, ok, err := c.GetInt(path)
	if err != nil || !ok {
		return 0, ok, err
	}
	t := T(v)
	if int64(t) != v || (t < 0) != (v < 0) {
		return 0, true, errors.Overflow(path, v, fmt.Sprintf("%T", t))
	}
	return t, true, nil
}

// ParseInt accepts decimal and 0x-prefixed hexadecimal literals. Leading
// zeros are decimal, not octal.
func ParseInt(path, s string) (int64, error) {
	lit := strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(lit, "-") {
		neg = true
		lit = lit[1:]
	}

	var (
		u   uint64
		err error
	)
	if strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X") {
		u, err = strconv.ParseUint(strings.ReplaceAll(lit[2:], "_", ""), 16, 64)
	} else {
		u, err = strconv.ParseUint(lit, 10, 64)
	}
	if err != nil {
		return 0, errors.InvalidLiteral(path, s, err)
	}

	if neg {
		if u > uint64(math.MaxInt64)+1 {
			return 0, errors.Overflow(path, s, "int64")
		}
		return -int64(u), nil
	}
	if u > math.MaxInt64 {
		return 0, errors.Overflow(path, s, "int64")
	}
	return int64(u), nil
}

// ParseBool accepts true/false, yes/no, on/off and 1/0.
func ParseBool(path, s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, errors.InvalidLiteral(path, s, nil)
}

// splitList splits a scalar list literal on commas and whitespace.
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}
