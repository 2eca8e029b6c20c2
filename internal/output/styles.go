package output

import "github.com/charmbracelet/lipgloss"

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	branchStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	hashStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Branch renders a branch name.
func Branch(name string) string {
	return branchStyle.Render(name)
}

// Hash renders a commit hash.
func Hash(hash string) string {
	return hashStyle.Render(hash)
}

// Dim renders secondary text.
func Dim(s string) string {
	return dimStyle.Render(s)
}
