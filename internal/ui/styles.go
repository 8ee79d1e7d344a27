package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/gubarz/mdpath/internal/config"
)

// StyleManager encapsulates all TUI and outline styles
type StyleManager struct {
	// Outline styles
	File  lipgloss.Style
	Level lipgloss.Style
	Path  lipgloss.Style
	Title lipgloss.Style
	Guide lipgloss.Style

	// Browser styles
	Selected lipgloss.Style
	Cursor   lipgloss.Style
	Dim      lipgloss.Style

	// Preview styles
	PreviewTitle lipgloss.Style
	PreviewPath  lipgloss.Style

	// Chrome styles
	Divider lipgloss.Style

	// Colors for direct access
	SelectedBg lipgloss.Color
}

// DefaultStyles returns a StyleManager with default styles
func DefaultStyles() *StyleManager {
	return &StyleManager{
		File:         lipgloss.NewStyle().Bold(true).Underline(true),
		Level:        lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		Path:         lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Title:        lipgloss.NewStyle(),
		Guide:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Selected:     lipgloss.NewStyle().Background(lipgloss.Color("236")),
		Cursor:       lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Dim:          lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		PreviewTitle: lipgloss.NewStyle().Bold(true),
		PreviewPath:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Divider:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		SelectedBg:   lipgloss.Color("236"),
	}
}

// LoadFromConfig updates styles based on configuration
func (s *StyleManager) LoadFromConfig() {
	levelColor := parseANSIColor(config.GetColorLevel())
	pathColor := parseANSIColor(config.GetColorPath())
	titleColor := parseANSIColor(config.GetColorTitle())
	dimColor := parseANSIColor(config.GetColorDim())

	s.Level = lipgloss.NewStyle().Foreground(levelColor)
	s.Path = lipgloss.NewStyle().Foreground(pathColor)
	s.Title = lipgloss.NewStyle().Foreground(titleColor)
	s.Guide = lipgloss.NewStyle().Foreground(dimColor)
	s.Dim = lipgloss.NewStyle().Foreground(dimColor)

	s.PreviewTitle = lipgloss.NewStyle().Bold(true).Foreground(titleColor)
	s.PreviewPath = lipgloss.NewStyle().Foreground(pathColor)
}

// WithSelection returns a copy of the given style with the selected background applied
func (s *StyleManager) WithSelection(style lipgloss.Style) lipgloss.Style {
	return style.Background(s.SelectedBg)
}

// parseANSIColor converts ANSI color codes to lipgloss colors
func parseANSIColor(code string) lipgloss.Color {
	ansiToLipgloss := map[string]string{
		"30": "0", "31": "1", "32": "2", "33": "3",
		"34": "4", "35": "5", "36": "6", "37": "7",
		"90": "8", "91": "9", "92": "10", "93": "11",
		"94": "12", "95": "13", "96": "14", "97": "15",
	}
	if mapped, ok := ansiToLipgloss[code]; ok {
		return lipgloss.Color(mapped)
	}
	return lipgloss.Color(code)
}

// Global style manager instance
var styles = DefaultStyles()

// RefreshStyles updates the global styles from config
func RefreshStyles() {
	styles.LoadFromConfig()
}
