// Package printer writes styled status lines for the CLI commands.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/lector/internal/core/styles"
)

type ctxKey struct{}

// Printer writes one line per call. Icons and colors come from the active
// theme in package styles.
type Printer struct {
	out io.Writer
}

// New returns a printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{out: w}
}

// NewContext attaches p to ctx.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer attached to ctx, or one writing to stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok && p != nil {
		return p
	}
	return New(os.Stderr)
}

func (p *Printer) Successf(format string, args ...any) {
	p.line(styles.StatusStyle, "✔", format, args...)
}

func (p *Printer) Infof(format string, args ...any) {
	p.line(styles.CommandStyle, "•", format, args...)
}

func (p *Printer) Warnf(format string, args ...any) {
	p.line(lipgloss.NewStyle().Foreground(styles.ColorWarning), "!", format, args...)
}

func (p *Printer) Errorf(format string, args ...any) {
	p.line(styles.StatusErrorStyle, "✘", format, args...)
}

// Printf writes an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) line(style lipgloss.Style, icon, format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, "%s %s\n", style.Render(icon), fmt.Sprintf(format, args...))
}
