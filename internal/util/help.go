package util

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Help styles using lipgloss
var (
	lightGreen  = lipgloss.Color("#90EE90")
	gray        = lipgloss.Color("#A9A9A9")
	darkGray    = lipgloss.Color("#5A5A5A")
	brightGreen = lipgloss.Color("#00FF7F")
	orange      = lipgloss.Color("#F97316") // matches logger prefix

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(orange).
			Bold(true).
			PaddingBottom(1).
			MarginLeft(2)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(gray).
			Italic(true).
			PaddingBottom(1).
			MarginLeft(2)

	sectionTitleStyle = lipgloss.NewStyle().
				Foreground(lightGreen).
				Bold(true).
				PaddingLeft(2)

	commandStyle = lipgloss.NewStyle().
			Foreground(brightGreen).
			Bold(true).
			PaddingLeft(4)

	descriptionStyle = lipgloss.NewStyle().
				Foreground(gray).
				PaddingLeft(6).
				Width(80 - 6)

	separatorStyle = lipgloss.NewStyle().
			Foreground(darkGray)
)

// ShowBeautifulHelp displays the formatted help message
func ShowBeautifulHelp() {
	fmt.Print(HelpText())
}

// HelpText renders the help message
func HelpText() string {
	var b strings.Builder
	separator := separatorStyle.Render(strings.Repeat("─", 80))

	b.WriteString(helpTitleStyle.Render("GoKino - kinopoisk.dev in your terminal"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Search, filter and pick movies without leaving the shell."))
	b.WriteString("\n\n")

	b.WriteString(separator + "\n")
	b.WriteString(sectionTitleStyle.Render("Commands:") + "\n")
	addEntry(&b, "gokino [tui]", "Interactive mode: movie list, filters, detail pages and random pick")
	addEntry(&b, "gokino search [text]", "Search by name, or by the filter flags when no text is given")
	addEntry(&b, "gokino random", "Pick a random movie matching the filter flags")
	addEntry(&b, "gokino values <countries|genres|types|networks|all>", "List the possible values of a filter")
	addEntry(&b, "gokino movie <id>", "Show a movie with its images, seasons, actors and reviews")
	b.WriteString("\n")

	b.WriteString(separator + "\n")
	b.WriteString(sectionTitleStyle.Render("Options:") + "\n")
	addEntry(&b, "-debug", "Enable debug logging and detailed errors")
	addEntry(&b, "-perf", "Print API timing statistics on exit")
	addEntry(&b, "-config <file>", "TOML configuration file (default $GOKINO_CONFIG)")
	addEntry(&b, "-location <gokino:///...>", "Open a shared location instead of the default movie list")
	addEntry(&b, "-years 2000-2010, -kp 7-10", "Release year and kinopoisk rating ranges")
	addEntry(&b, "-country, -genre, -type, -network, -age", "Comma separated filter values")
	addEntry(&b, "-page, -size", "Page number and page size (10, 20, 50 or 100)")
	addEntry(&b, "-version", "Show version information")
	b.WriteString("\n")

	b.WriteString(separator + "\n")
	b.WriteString(subtitleStyle.Render("Requires KINOPOISK_API_KEY, get one at https://kinopoisk.dev"))
	b.WriteString("\n\n")
	return b.String()
}

func addEntry(builder *strings.Builder, cmd, desc string) {
	builder.WriteString(commandStyle.Render("  " + cmd))
	builder.WriteString("\n")
	builder.WriteString(descriptionStyle.Render("    " + desc))
	builder.WriteString("\n")
}
