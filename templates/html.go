// Package templates renders the application's HTML as templ components.
package templates

//go:generate templ generate

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so components can render without
// checking every call.
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newWriter(ctx context.Context, w io.Writer) *htmlWriter {
	return &htmlWriter{ctx: ctx, w: w}
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

// rawf writes formatted markup. Arguments must already be escaped.
func (h *htmlWriter) rawf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) component(c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(h.ctx, h.w)
	}
}

func esc(s string) string {
	return templ.EscapeString(s)
}

func attrIf(cond bool, attr string) string {
	if cond {
		return " " + attr
	}
	return ""
}

func withQuery(base string, q url.Values) string {
	if len(q) == 0 {
		return base
	}
	return base + "?" + q.Encode()
}

// Option is a value/label pair of a <select> or radio group.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

func renderOptions(h *htmlWriter, placeholder string, opts []Option) {
	if placeholder != "" {
		h.rawf(`<option value="">%s</option>`, esc(placeholder))
	}
	for _, o := range opts {
		h.rawf(`<option value="%s"%s>%s</option>`, esc(o.Value), attrIf(o.Selected, "selected"), esc(o.Label))
	}
}
