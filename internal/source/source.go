// Package source resolves where the text to encode comes from and reads it.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Prompt is written before an interactive read from standard input.
const Prompt = "Text to convert: "

type Kind int

const (
	KindStdin Kind = iota
	KindText
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindFile:
		return "file"
	default:
		return "stdin"
	}
}

// Source is one of Text(s), File(path) or Stdin. The zero value is Stdin.
type Source struct {
	kind  Kind
	value string
}

// New builds a Source from the optional --text and --file values.
// Callers reject both being set before getting here; if they are, text wins.
func New(text, file *string) Source {
	switch {
	case text != nil:
		return Text(*text)
	case file != nil:
		return File(*file)
	default:
		return Stdin()
	}
}

func Text(s string) Source    { return Source{kind: KindText, value: s} }
func File(path string) Source { return Source{kind: KindFile, value: path} }
func Stdin() Source           { return Source{kind: KindStdin} }

func (s Source) Kind() Kind { return s.kind }

// Value is the literal text for Text, the path for File, and empty for Stdin.
func (s Source) Value() string { return s.value }

func (s Source) String() string {
	switch s.kind {
	case KindText:
		return strconv.Quote(s.value)
	case KindFile:
		return "file:" + s.value
	default:
		return "<stdin>"
	}
}

// Operations reported in ReadError.Op.
const (
	OpReadFile    = "read file"
	OpWritePrompt = "write prompt"
	OpReadStdin   = "read stdin"
)

// ReadError reports a failure to materialize a Source.
type ReadError struct {
	Op  string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

type flusher interface {
	Flush() error
}

// Bytes yields the data to encode. Text is returned unchanged and File is read
// whole. Stdin writes Prompt to prompt, then reads a single line from in; the
// line terminator is kept.
func (s Source) Bytes(in io.Reader, prompt io.Writer) ([]byte, error) {
	switch s.kind {
	case KindText:
		return []byte(s.value), nil
	case KindFile:
		data, err := os.ReadFile(s.value)
		if err != nil {
			return nil, &ReadError{Op: OpReadFile, Err: err}
		}
		return data, nil
	default:
		return readLine(in, prompt)
	}
}

func readLine(in io.Reader, prompt io.Writer) ([]byte, error) {
	if _, err := io.WriteString(prompt, Prompt); err != nil {
		return nil, &ReadError{Op: OpWritePrompt, Err: err}
	}
	if f, ok := prompt.(flusher); ok {
		if err := f.Flush(); err != nil {
			return nil, &ReadError{Op: OpWritePrompt, Err: err}
		}
	}
	line, err := bufio.NewReader(in).ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, &ReadError{Op: OpReadStdin, Err: err}
	}
	return line, nil
}
