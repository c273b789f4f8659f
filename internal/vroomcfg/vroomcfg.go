// Package vroomcfg decodes the optional TOML configuration sidecar spec
// §3's Extraction config names: per-column overrides for NA strings,
// true/false literal sets, trimming, decimal/grouping marks, and date
// format preference, merged over process-wide defaults.
package vroomcfg

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/vroomgo/vroom/internal/valueparse"
)

// ColumnOverride holds one column's extraction overrides, looked up by
// column name (TOML section keys are column names). The `index` field is
// decoded but not consulted by the lookup methods, which match by name only.
type ColumnOverride struct {
	Index        *int     `toml:"index"`
	NAStrings    []string `toml:"na_strings"`
	TrueStrings  []string `toml:"true_strings"`
	FalseStrings []string `toml:"false_strings"`
	Trim         *bool    `toml:"trim"`
	DecimalMark  string   `toml:"decimal_mark"`
	GroupingMark string   `toml:"grouping_mark"`
	DateFormat   string   `toml:"date_format"`
}

// Options is the process-wide default extraction config plus per-column
// overrides, matching the struct-tag shape `ChristianF88-cidrx`'s
// config.go uses for its own TOML-decoded config types.
type Options struct {
	NAStrings    []string                   `toml:"na_strings"`
	TrueStrings  []string                   `toml:"true_strings"`
	FalseStrings []string                   `toml:"false_strings"`
	Trim         bool                       `toml:"trim"`
	DecimalMark  string                     `toml:"decimal_mark"`
	GroupingMark string                     `toml:"grouping_mark"`
	Columns      map[string]*ColumnOverride `toml:"columns"`
}

// Default matches valueparse's package defaults.
var Default = Options{
	NAStrings:    []string{"NA"},
	TrueStrings:  []string{"TRUE", "T", "true", "True"},
	FalseStrings: []string{"FALSE", "F", "false", "False"},
	Trim:         true,
	DecimalMark:  ".",
}

// Load decodes a TOML config file at path into an Options value seeded
// with Default, so a sidecar only needs to specify what it overrides.
func Load(path string) (Options, error) {
	opts := Default
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return Options{}, fmt.Errorf("vroomcfg: %w", err)
	}
	return opts, nil
}

// LoadIfExists behaves like Load but returns Default, false, nil when path
// does not exist (the `<input>.vroom.toml` sidecar is optional).
func LoadIfExists(path string) (Options, bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Default, false, nil
		}
		return Options{}, false, fmt.Errorf("vroomcfg: %w", err)
	}
	opts, err := Load(path)
	return opts, true, err
}

// NAConfig returns the valueparse.NAConfig for the whole file, optionally
// narrowed by a per-column override looked up by name.
func (o Options) NAConfig(column string) valueparse.NAConfig {
	strs := o.NAStrings
	trim := o.Trim
	if ov, ok := o.Columns[column]; ok {
		if ov.NAStrings != nil {
			strs = ov.NAStrings
		}
		if ov.Trim != nil {
			trim = *ov.Trim
		}
	}
	return valueparse.NAConfig{Strings: strs, Trim: trim}
}

// BoolConfig returns the valueparse.BoolConfig for column, applying any
// override.
func (o Options) BoolConfig(column string) valueparse.BoolConfig {
	trueStrs, falseStrs := o.TrueStrings, o.FalseStrings
	if ov, ok := o.Columns[column]; ok {
		if ov.TrueStrings != nil {
			trueStrs = ov.TrueStrings
		}
		if ov.FalseStrings != nil {
			falseStrs = ov.FalseStrings
		}
	}
	return valueparse.BoolConfig{True: trueStrs, False: falseStrs}
}

// DoubleConfig returns the valueparse.DoubleConfig for column, applying
// any locale override.
func (o Options) DoubleConfig(column string) valueparse.DoubleConfig {
	decimal := markByte(o.DecimalMark, '.')
	grouping := markByte(o.GroupingMark, 0)
	if ov, ok := o.Columns[column]; ok {
		if ov.DecimalMark != "" {
			decimal = markByte(ov.DecimalMark, decimal)
		}
		if ov.GroupingMark != "" {
			grouping = markByte(ov.GroupingMark, grouping)
		}
	}
	return valueparse.DoubleConfig{DecimalMark: decimal, GroupingMark: grouping}
}

func markByte(s string, fallback byte) byte {
	if len(s) == 0 {
		return fallback
	}
	return s[0]
}
