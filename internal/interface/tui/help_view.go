package tui

func (m Model) viewHelp() string {
	help := `
Copilot Chat History Browser - Help
═══════════════════════════════════

SESSION LIST VIEW
─────────────────
  ↑/↓, j/k     Navigate sessions
  Enter        View session conversation
  /            Filter sessions
  ?            Show this help
  q            Quit

SESSION DETAIL VIEW
───────────────────
  ↑/↓, j/k     Scroll line by line
  g/G          Jump to top/bottom
  c            Copy conversation to clipboard
  esc          Back to session list
  q            Back to session list

Press any key to return to session list
`

	return helpStyle.Render(help)
}
