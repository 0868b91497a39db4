package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette for the TUI
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Violet
	secondaryColor = lipgloss.Color("#10B981") // Emerald
	accentColor    = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#EF4444") // Red

	fgColor     = lipgloss.Color("#CDD6F4") // Light foreground
	mutedColor  = lipgloss.Color("#6C7086") // Muted text
	borderColor = lipgloss.Color("#45475A") // Border
	selectedBg  = lipgloss.Color("#313244") // Selected background
)

// headerStyle creates the header/banner style
var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(fgColor).
	Background(primaryColor).
	Padding(0, 2).
	MarginBottom(1)

// sectionTitleStyle titles the results and recent searches sections
var sectionTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(primaryColor)

var subtitleStyle = lipgloss.NewStyle().
	Foreground(mutedColor).
	Italic(true)

var helpStyle = lipgloss.NewStyle().
	Foreground(mutedColor).
	MarginTop(1)

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(borderColor).
	Padding(0, 1)

var errorStyle = lipgloss.NewStyle().
	Foreground(errorColor).
	Bold(true)

var inputLabelStyle = lipgloss.NewStyle().
	Foreground(secondaryColor).
	Bold(true)

var progressStyle = lipgloss.NewStyle().
	Foreground(accentColor)

var imageTitleStyle = lipgloss.NewStyle().
	Foreground(fgColor)

var urlStyle = lipgloss.NewStyle().
	Foreground(mutedColor).
	Underline(true)

// pageStyle renders an inactive page control
var pageStyle = lipgloss.NewStyle().
	Foreground(fgColor).
	Padding(0, 1)

// activePageStyle renders the page currently on display
var activePageStyle = lipgloss.NewStyle().
	Foreground(secondaryColor).
	Background(selectedBg).
	Bold(true).
	Padding(0, 1)

// cursorPageStyle marks the page under the pager cursor
var cursorPageStyle = lipgloss.NewStyle().
	Foreground(accentColor).
	Underline(true).
	Bold(true).
	Padding(0, 1)
