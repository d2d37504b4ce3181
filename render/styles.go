package render

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	nameStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	totalStyle   = lipgloss.NewStyle().Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	bannerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Align(lipgloss.Center).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	numericStyle = cellStyle.Align(lipgloss.Right)
)
