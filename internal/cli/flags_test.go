package cli

import (
	"testing"

	"github.com/spf13/pflag"

	"qrit/internal/format"
)

func TestFormatValue(t *testing.T) {
	var v formatValue
	if v.f != nil || v.String() != "" {
		t.Fatalf("unset value should be empty")
	}
	if err := v.Set("svg"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v.f == nil || *v.f != format.SVG || v.String() != "svg" {
		t.Fatalf("unexpected value %v", v.String())
	}
	if err := v.Set("tiff"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if *v.f != format.SVG {
		t.Fatalf("failed Set should keep previous value")
	}
}

func TestOptional(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	var output, text string
	fs.StringVar(&output, "output", "", "")
	fs.StringVar(&text, "text", "", "")
	if err := fs.Parse([]string{"--text", ""}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if got := optional(fs, "output", output); got != nil {
		t.Fatalf("unset flag should be nil, got %q", *got)
	}
	got := optional(fs, "text", text)
	if got == nil || *got != "" {
		t.Fatalf("explicitly empty flag should be non-nil empty string")
	}
}
