package cli

import (
	"github.com/spf13/pflag"

	"qrit/internal/format"
)

// formatValue is a pflag.Value that rejects unknown format names at parse
// time and remembers whether the flag was given at all.
type formatValue struct {
	f *format.Format
}

var _ pflag.Value = (*formatValue)(nil)

func (v *formatValue) Set(s string) error {
	f, err := format.Parse(s)
	if err != nil {
		return err
	}
	v.f = &f
	return nil
}

func (v *formatValue) String() string {
	if v.f == nil {
		return ""
	}
	return v.f.String()
}

func (v *formatValue) Type() string { return "format" }

// optional returns a pointer to the flag's value when it was set on the
// command line, nil otherwise.
func optional(fs *pflag.FlagSet, name, value string) *string {
	if !fs.Changed(name) {
		return nil
	}
	return &value
}
