// Package iocontext carries the command's I/O streams in a context so commands
// can be run against buffers.
package iocontext

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
)

// IO holds the input/output streams for commands.
type IO struct {
	Out    io.Writer // stdout
	ErrOut io.Writer // stderr
	In     io.Reader // stdin
}

// DefaultIO returns the standard IO streams.
func DefaultIO() *IO {
	return &IO{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
		In:     os.Stdin,
	}
}

// Buffered returns streams backed by in-memory buffers, with stdin preloaded.
func Buffered(stdin string) (*IO, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return &IO{Out: out, ErrOut: errOut, In: strings.NewReader(stdin)}, out, errOut
}

type ioKey struct{}

// WithIO adds IO streams to a context.
func WithIO(ctx context.Context, streams *IO) context.Context {
	return context.WithValue(ctx, ioKey{}, streams)
}

// GetIO retrieves IO streams from context, defaulting to standard streams.
func GetIO(ctx context.Context) *IO {
	if streams, ok := ctx.Value(ioKey{}).(*IO); ok && streams != nil {
		return streams
	}
	return DefaultIO()
}

// Copy returns a shallow copy so callers can swap one stream without
// mutating the original.
func (s *IO) Copy() *IO {
	cp := *s
	return &cp
}
