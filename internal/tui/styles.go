package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	taglineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Underline(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241"))

	userMsgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	aiMsgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	statValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	statusStyles = map[string]lipgloss.Style{
		"uploaded":   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		"processing": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"completed":  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"error":      lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}

	toastStyles = map[toastKind]lipgloss.Style{
		toastInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		toastSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		toastWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		toastError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}

	correctStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	wrongStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func statusBadge(status string) string {
	if style, ok := statusStyles[status]; ok {
		return style.Render(status)
	}
	return status
}
