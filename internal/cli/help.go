package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/mdnames/internal/ui/pretty"
	"github.com/yaklabco/mdnames/pkg/config"
)

// HelpStyles contains the lipgloss styles of command help.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style
	Subcommand  lipgloss.Style
	Flag        lipgloss.Style
	Description lipgloss.Style
	Example     lipgloss.Style
	Dim         lipgloss.Style
}

// NewHelpStyles returns colored help styles, or plain ones.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &HelpStyles{plain, plain, plain, plain, plain, plain, plain}
	}
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return &HelpStyles{
		Command:     fg("14").Bold(true),
		Heading:     fg("11").Bold(true),
		Subcommand:  fg("10"),
		Flag:        fg("12"),
		Description: lipgloss.NewStyle(),
		Example:     fg("8"),
		Dim:         fg("8"),
	}
}

// HelpFormatter renders styled help for cobra commands. The color mode
// given at construction is a fallback; a --color flag on the command
// being rendered takes precedence.
type HelpFormatter struct {
	colorMode config.ColorMode
	writer    io.Writer
}

// NewHelpFormatter creates a help formatter.
func NewHelpFormatter(colorMode config.ColorMode, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{colorMode: colorMode, writer: writer}
}

func (h *HelpFormatter) stylesFor(cmd *cobra.Command) *HelpStyles {
	mode := h.colorMode
	if flag := cmd.Flag(flagColor); flag != nil && flag.Changed {
		mode = config.ColorMode(flag.Value.String())
	}
	w := h.writer
	if w == nil {
		w = cmd.OutOrStdout()
	}
	return NewHelpStyles(pretty.IsColorEnabled(mode, w))
}

const helpTemplate = `{{with (or .Long .Short)}}{{ . | trimTrailingWhitespaces }}

{{end}}{{ heading "Usage:" }}{{if .Runnable}}
  {{ command .UseLine }}{{end}}{{if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}{{if .HasExample}}

{{ heading "Examples:" }}
{{ example .Example }}{{end}}{{if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}{{end}}{{if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}{{end}}{{if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.{{end}}
`

func (h *HelpFormatter) render(cmd *cobra.Command, w io.Writer) error {
	styles := h.stylesFor(cmd)
	funcs := template.FuncMap{
		"heading":                 styles.Heading.Render,
		"command":                 styles.Command.Render,
		"subcommand":              styles.Subcommand.Render,
		"example":                 styles.Example.Render,
		"flags":                   func(fs *pflag.FlagSet) string { return formatFlags(fs, styles) },
		"rpad":                    rpad,
		"trimTrailingWhitespaces": trimTrailingWhitespaces,
	}

	tmpl, err := template.New("help").Funcs(funcs).Parse(helpTemplate)
	if err != nil {
		return fmt.Errorf("parse help template: %w", err)
	}
	return tmpl.Execute(w, cmd)
}

// formatFlags lays out visible flags in two columns, the flag names and
// value type on the left and the usage and non-zero default on the right.
func formatFlags(fs *pflag.FlagSet, styles *HelpStyles) string {
	type row struct {
		left, styled, usage string
	}
	var rows []row
	width := 0

	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		varName, usage := pflag.UnquoteUsage(f)

		left := "    --" + f.Name
		styled := "    " + styles.Flag.Render("--"+f.Name)
		if f.Shorthand != "" {
			left = "-" + f.Shorthand + ", --" + f.Name
			styled = styles.Flag.Render("-"+f.Shorthand) + ", " + styles.Flag.Render("--"+f.Name)
		}
		if varName != "" {
			left += " " + varName
			styled += " " + styles.Dim.Render(varName)
		}

		if def := f.DefValue; def != "" && def != "false" && def != "0" && def != "[]" {
			usage += styles.Dim.Render(fmt.Sprintf(" (default %s)", def))
		}

		rows = append(rows, row{left: left, styled: styled, usage: styles.Description.Render(usage)})
		width = max(width, len(left))
	})

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = "  " + r.styled + strings.Repeat(" ", width-len(r.left)+3) + r.usage
	}
	return strings.Join(lines, "\n")
}

// ApplyToCommand installs the styled help and usage output on cmd. Cobra
// inherits both functions, so subcommands are covered too.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := h.render(command, command.OutOrStdout()); err != nil {
			command.PrintErrln(err)
		}
	})
	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return h.render(command, command.OutOrStderr())
	})
}

func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
