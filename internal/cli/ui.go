package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/coincortex/coincortex/internal/message"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F59E0B")).
			Background(lipgloss.Color("#1F2937")).
			Padding(0, 1).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(1, 2).
			Width(80)

	progressStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#10B981")).
			Padding(1, 2).
			Width(80)

	messagesStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#F59E0B")).
			Padding(1, 2).
			Width(80)

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	inProgressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))
)

// DisplayWelcomeBanner shows the welcome banner
func DisplayWelcomeBanner() {
	banner := `
   ██████╗ ██████╗ ██╗███╗   ██╗ ██████╗ ██████╗ ██████╗ ████████╗███████╗██╗  ██╗
  ██╔════╝██╔═══██╗██║████╗  ██║██╔════╝██╔═══██╗██╔══██╗╚══██╔══╝██╔════╝╚██╗██╔╝
  ██║     ██║   ██║██║██╔██╗ ██║██║     ██║   ██║██████╔╝   ██║   █████╗   ╚███╔╝
  ██║     ██║   ██║██║██║╚██╗██║██║     ██║   ██║██╔══██╗   ██║   ██╔══╝   ██╔██╗
  ╚██████╗╚██████╔╝██║██║ ╚████║╚██████╗╚██████╔╝██║  ██║   ██║   ███████╗██╔╝ ██╗
   ╚═════╝ ╚═════╝ ╚═╝╚═╝  ╚═══╝ ╚═════╝ ╚═════╝ ╚═╝  ╚═╝   ╚═╝   ╚══════╝╚═╝  ╚═╝
`

	welcomeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F59E0B")).
		Bold(true).
		Align(lipgloss.Center).
		Width(86)

	taglineStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3B82F6")).
		Italic(true).
		Align(lipgloss.Center).
		Width(86).
		MarginBottom(1)

	fmt.Print(welcomeStyle.Render(banner))
	fmt.Println()
	fmt.Println(taglineStyle.Render("Multi-agent trading analysis for stocks and cryptocurrencies"))
}

// DisplayAnalysisHeader shows the analysis header
func DisplayAnalysisHeader(selections UserSelections) {
	header := fmt.Sprintf("Analysis: %s (%s) | Date: %s | Depth: %s",
		selections.Ticker,
		selections.AssetType,
		selections.AnalysisDate.Format("2006-01-02"),
		selections.ResearchDepth,
	)
	fmt.Println(headerStyle.Render(header))
}

// DisplayProgressPanel shows the agent progress panel
func DisplayProgressPanel(buf *message.MessageBuffer) {
	var content strings.Builder

	content.WriteString("Agent Progress\n\n")
	for _, node := range message.NodeOrder {
		content.WriteString(formatAgentStatus(DisplayName(node), buf.AgentStatus(node)))
	}

	msgCount, toolCount := buf.Counts()
	content.WriteString(fmt.Sprintf("\nStats: %d/%d agents | %d messages | %d tool calls | %d reports",
		buf.CompletedCount(),
		len(message.NodeOrder),
		msgCount,
		toolCount,
		len(buf.ReportSections()),
	))

	fmt.Println(progressStyle.Render(content.String()))
}

// DisplayMessagesPanel shows the most recent activity lines
func DisplayMessagesPanel(buf *message.MessageBuffer, maxMessages int) {
	var content strings.Builder

	content.WriteString("Activity Log\n\n")

	msgs := buf.RecentMessages(maxMessages)
	if len(msgs) == 0 {
		content.WriteString("No messages yet...")
		fmt.Println(messagesStyle.Render(content.String()))
		return
	}

	for _, msg := range msgs {
		var style lipgloss.Style
		switch msg.Type {
		case "tool_call":
			style = infoStyle
		case "report":
			style = completedStyle
		case "error":
			style = errorStyle
		default:
			style = lipgloss.NewStyle()
		}

		line := fmt.Sprintf("[%s] %s: %s",
			msg.Timestamp,
			DisplayName(msg.Agent),
			truncateString(msg.Content, 60),
		)
		content.WriteString(style.Render(line) + "\n")
	}

	fmt.Println(messagesStyle.Render(content.String()))
}

// DisplayRunSummary shows the final run summary box
func DisplayRunSummary(selections UserSelections, buf *message.MessageBuffer, elapsed time.Duration, resultsDir string) {
	fmt.Println()
	fmt.Println(titleStyle.Render("ANALYSIS COMPLETE"))

	msgCount, toolCount := buf.Counts()
	var content strings.Builder
	content.WriteString("Analysis Summary\n\n")
	content.WriteString(fmt.Sprintf("Symbol:       %s (%s)\n", selections.Ticker, selections.AssetType))
	content.WriteString(fmt.Sprintf("Date:         %s\n", selections.AnalysisDate.Format("2006-01-02")))
	content.WriteString(fmt.Sprintf("Duration:     %s\n", elapsed.Round(time.Second)))
	content.WriteString(fmt.Sprintf("Agents:       %d/%d completed\n", buf.CompletedCount(), len(message.NodeOrder)))
	content.WriteString(fmt.Sprintf("Messages:     %d\n", msgCount))
	content.WriteString(fmt.Sprintf("Tool Calls:   %d\n", toolCount))
	content.WriteString(fmt.Sprintf("Reports:      %d\n", len(buf.ReportSections())))
	content.WriteString(fmt.Sprintf("Results Dir:  %s", resultsDir))

	fmt.Println(headerStyle.Render(content.String()))
}

// DisplayError shows an error message
func DisplayError(err error) {
	fmt.Println(errorStyle.Render(fmt.Sprintf("Error: %s", err.Error())))
}

// DisplayInfo shows an info message
func DisplayInfo(msg string) {
	fmt.Println(infoStyle.Render(msg))
}

// DisplaySuccess shows a success message
func DisplaySuccess(msg string) {
	fmt.Println(successStyle.Render(msg))
}

func formatAgentStatus(name, status string) string {
	var style lipgloss.Style
	var marker string

	switch status {
	case message.StatePending:
		style = pendingStyle
		marker = "[ ]"
	case message.StateInProgress:
		style = inProgressStyle
		marker = "[>]"
	case message.StateCompleted:
		style = completedStyle
		marker = "[x]"
	case message.StateError:
		style = errorStyle
		marker = "[!]"
	default:
		style = pendingStyle
		marker = "[?]"
	}

	return fmt.Sprintf("%s %s\n", marker, style.Render(name))
}

func truncateString(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
