// Package report renders diagnostic reports for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Status is the outcome of a single check.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Check is one line of a report.
type Check struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Section groups related checks.
type Section struct {
	Title  string  `json:"title"`
	Checks []Check `json:"checks"`
}

// Report is a titled list of sections.
type Report struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Failed reports whether any check failed.
func (r Report) Failed() bool {
	for _, s := range r.Sections {
		for _, c := range s.Checks {
			if c.Status == StatusFail {
				return true
			}
		}
	}
	return false
}

// Render formats the report. Styled output uses colors; plain output is
// safe for logs and pipes.
func Render(r Report, styled bool) string {
	var b strings.Builder

	b.WriteString(render(titleStyle, r.Title, styled))
	b.WriteString("\n")

	width := 0
	for _, s := range r.Sections {
		for _, c := range s.Checks {
			width = max(width, lipgloss.Width(c.Name))
		}
	}

	for _, s := range r.Sections {
		if styled {
			b.WriteString(sectionStyle.Render(s.Title))
		} else {
			b.WriteString("\n" + s.Title)
		}
		b.WriteString("\n")

		for _, c := range s.Checks {
			mark, style := marker(c.Status)
			line := fmt.Sprintf("  %s %-*s", render(style, mark, styled), width, c.Name)
			if c.Detail != "" {
				line += "  " + render(dimStyle, c.Detail, styled)
			}
			b.WriteString(strings.TrimRight(line, " "))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func marker(s Status) (string, lipgloss.Style) {
	switch s {
	case StatusOK:
		return checkMark, okStyle
	case StatusWarn:
		return warnMark, warningStyle
	default:
		return crossMark, failedStyle
	}
}

func render(style lipgloss.Style, text string, styled bool) string {
	if !styled {
		return text
	}
	return style.Render(text)
}
