package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func printHelp(w io.Writer, root *cobra.Command) {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f97362")).
		Bold(true).
		Render("F A M I L Y F I T")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Daily tasks, meals and workouts for the whole family.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	fmt.Fprintf(w, "\n  %s\n\n  %s\n\n  Commands:\n", title, tagline)
	fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-22s", root.Name())), descStyle.Render("Open the interactive TUI"))
	for _, c := range root.Commands() {
		if !c.IsAvailableCommand() {
			continue
		}
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-22s", root.Name()+" "+c.Use)), descStyle.Render(c.Short))
	}
	fmt.Fprintf(w, "\n  Flags:\n%s\n", root.PersistentFlags().FlagUsages())
}

func printOK(w io.Writer, format string, args ...interface{}) {
	green := color.New(color.FgHiGreen)
	white := color.New(color.FgHiWhite)
	green.Fprint(w, "  ✓ ")
	white.Fprintln(w, fmt.Sprintf(format, args...))
}

func printInfo(w io.Writer, format string, args ...interface{}) {
	c := color.New(color.FgHiCyan)
	c.Fprint(w, "  • ")
	c.Fprintln(w, fmt.Sprintf(format, args...))
}

func printError(w io.Writer, err error) {
	c := color.New(color.FgHiRed)
	c.Fprint(w, "  • ")
	c.Fprintln(w, err.Error())
}
