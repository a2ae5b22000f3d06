package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/hexwire/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// FailureMarkdown formats a failure and its remediation as a markdown document.
func FailureMarkdown(f *domain.Failure) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", f.Reason.Err())
	if f.Target != "" {
		fmt.Fprintf(&sb, "Target: `%s`  \n", f.Target)
	}
	fmt.Fprintf(&sb, "Stage: `%s`\n\n", f.Stage)
	if f.OSText != "" {
		fmt.Fprintf(&sb, "> %s", f.OSText)
		if f.Code != "" {
			fmt.Fprintf(&sb, " (%s)", f.Code)
		}
		sb.WriteString("\n\n")
	}

	for _, line := range strings.Split(f.Remediation, "\n") {
		if strings.HasSuffix(line, ":") && !strings.HasPrefix(line, "-") {
			fmt.Fprintf(&sb, "## %s\n", strings.TrimSuffix(line, ":"))
			continue
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// PrintFailure writes f to w. Styled output uses glamour, plain output is
// f.Detail() verbatim.
func PrintFailure(w io.Writer, f *domain.Failure, styled bool) error {
	if !styled {
		_, err := fmt.Fprintln(w, f.Detail())
		return err
	}

	out, err := NewRenderer()(FailureMarkdown(f))
	if err != nil {
		_, err = fmt.Fprintln(w, f.Detail())
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
