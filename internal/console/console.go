// Package console renders exchanges for a terminal.
package console

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/shravanasati/courier/internal/headers"
	"github.com/shravanasati/courier/internal/response"
)

// Printer writes status lines, headers and access lines to w, colored when
// w is a terminal.
type Printer struct {
	w           io.Writer
	renderer    *lipgloss.Renderer
	methodStyle lipgloss.Style
	nameStyle   lipgloss.Style
	faint       lipgloss.Style
}

func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:           w,
		renderer:    r,
		methodStyle: r.NewStyle().Foreground(lipgloss.Color("15")).Bold(true).Background(lipgloss.Color("12")).Width(8).Align(lipgloss.Center),
		nameStyle:   r.NewStyle().Foreground(lipgloss.Color("12")),
		faint:       r.NewStyle().Faint(true),
	}
}

// StatusStyle returns the style for a status code class.
func (p *Printer) StatusStyle(statusCode int) lipgloss.Style {
	switch {
	case statusCode >= 100 && statusCode < 200:
		// 1xx Informational - Cyan
		return p.renderer.NewStyle().Foreground(lipgloss.Color("51")).Bold(true)
	case statusCode >= 200 && statusCode < 300:
		// 2xx Success - Green
		return p.renderer.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	case statusCode >= 300 && statusCode < 400:
		// 3xx Redirection - Yellow
		return p.renderer.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	case statusCode >= 400 && statusCode < 500:
		// 4xx Client Error - Orange/Red
		return p.renderer.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	case statusCode >= 500:
		// 5xx Server Error - Bright Red
		return p.renderer.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	default:
		return p.renderer.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	}
}

// StatusLine prints a status line.
func (p *Printer) StatusLine(sl response.StatusLine) error {
	code := p.StatusStyle(int(sl.Code)).Render(fmt.Sprintf("%03d", int(sl.Code)))
	_, err := fmt.Fprintf(p.w, "%s %s %s\n", sl.Version, code, sl.Reason)
	return err
}

// Header prints one header field.
func (p *Printer) Header(name, value string) error {
	_, err := fmt.Fprintf(p.w, "%s: %s\n", p.nameStyle.Render(name), value)
	return err
}

// Head prints a status line followed by its headers and a blank line.
func (p *Printer) Head(sl response.StatusLine, h *headers.Headers) error {
	if err := p.StatusLine(sl); err != nil {
		return err
	}
	for name, value := range h.All() {
		if err := p.Header(name, value); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(p.w)
	return err
}

// Access prints one line per served exchange.
func (p *Printer) Access(method, target string, statusCode response.StatusCode, took time.Duration) error {
	_, err := fmt.Fprintf(p.w, "%s %s %s %s\n",
		p.methodStyle.Render(method), target,
		p.StatusStyle(int(statusCode)).Render(fmt.Sprintf("%d", int(statusCode))),
		p.faint.Render("in "+took.String()))
	return err
}
