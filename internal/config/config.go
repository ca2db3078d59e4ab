// Package config turns the parsed command line into the resolved settings for
// a single run.
package config

import (
	"errors"

	"qrit/internal/format"
	"qrit/internal/source"
)

// defaultBase is the file name stem used when an image format is requested
// without an output path.
const defaultBase = "a"

var ErrConflictingSources = errors.New("--text and --file cannot be used together")

// Target is where the rendered code is written: Stdout or File(path).
type Target struct {
	path   string
	isFile bool
}

func Stdout() Target { return Target{} }

func ToFile(path string) Target { return Target{path: path, isFile: true} }

func (t Target) IsStdout() bool { return !t.isFile }

func (t Target) Path() string { return t.path }

func (t Target) String() string {
	if !t.isFile {
		return "<stdout>"
	}
	return t.path
}

// Raw is the command line as parsed. A nil field means the flag was not given.
type Raw struct {
	Format *format.Format
	Output *string
	Text   *string
	File   *string
}

func (r Raw) Validate() error {
	if r.Text != nil && r.File != nil {
		return ErrConflictingSources
	}
	return nil
}

// Opts is the resolved configuration. It is built once by New and not
// modified afterwards.
type Opts struct {
	Format format.Format
	Target Target
	Source source.Source
}

func New(raw Raw) (Opts, error) {
	if err := raw.Validate(); err != nil {
		return Opts{}, err
	}
	src := source.New(raw.Text, raw.File)
	f, target := Resolve(src, raw.Output, raw.Format)
	return Opts{Format: f, Target: target, Source: src}, nil
}

// Resolve picks the output format and target from the source kind and the
// optional output path and format. Cases are checked in order:
//
//  1. file source, no output, no format: png into a.png
//  2. no output, no format: term on stdout
//  3. output, no format: format from the output's extension, written to output
//  4. no output, format term: term on stdout
//  5. no output, image format f: f into a.<f>
//  6. output and format: as given
func Resolve(src source.Source, output *string, f *format.Format) (format.Format, Target) {
	switch {
	case src.Kind() == source.KindFile && output == nil && f == nil:
		return format.PNG, ToFile(defaultName(format.PNG))
	case output == nil && f == nil:
		return format.Term, Stdout()
	case output != nil && f == nil:
		return format.FromPath(*output), ToFile(*output)
	case output == nil && *f == format.Term:
		return format.Term, Stdout()
	case output == nil:
		return *f, ToFile(defaultName(*f))
	default:
		return *f, ToFile(*output)
	}
}

func defaultName(f format.Format) string {
	return defaultBase + "." + f.String()
}
