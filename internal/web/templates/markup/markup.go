// Package markup writes escaped HTML for hand-built templ components.
package markup

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Writer accumulates the first write error so components can write without
// checking every call
type Writer struct {
	w   io.Writer
	err error
}

// New wraps an io.Writer
func New(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Raw writes trusted HTML
func (m *Writer) Raw(s string) {
	if m.err != nil {
		return
	}
	_, m.err = io.WriteString(m.w, s)
}

// Rawf writes formatted trusted HTML. Arguments are not escaped.
func (m *Writer) Rawf(format string, args ...any) {
	m.Raw(fmt.Sprintf(format, args...))
}

// Text writes escaped text, also safe inside quoted attribute values
func (m *Writer) Text(s string) {
	m.Raw(templ.EscapeString(s))
}

// Component renders a nested component
func (m *Writer) Component(ctx context.Context, c templ.Component) {
	if m.err != nil || c == nil {
		return
	}
	m.err = c.Render(ctx, m.w)
}

// Err returns the first error encountered
func (m *Writer) Err() error {
	return m.err
}

// Func adapts a writing function into a templ.Component
func Func(f func(ctx context.Context, m *Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := New(w)
		f(ctx, m)
		return m.Err()
	})
}

// Attr returns an escaped attribute value
func Attr(s string) string {
	return templ.EscapeString(s)
}
