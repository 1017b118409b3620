package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/lifelist/internal/model"
)

// Color palette based on TUI design
var (
	// Priority colors
	PriorityHigh   = lipgloss.Color("#FF6B6B") // Red
	PriorityMedium = lipgloss.Color("#FFE66D") // Yellow
	PriorityLow    = lipgloss.Color("#4ECDC4") // Blue

	// Status colors
	Completed = lipgloss.Color("#95E1A3") // Green
	Expired   = lipgloss.Color("#FF6B6B") // Red
	Guest     = lipgloss.Color("#FFB347") // Orange

	// UI colors
	Primary    = lipgloss.Color("#4ECDC4")
	Secondary  = lipgloss.Color("#6C757D")
	Background = lipgloss.Color("#1a1a2e")
	Surface    = lipgloss.Color("#16213e")
	Text       = lipgloss.Color("#FFFFFF")
	TextMuted  = lipgloss.Color("#888888")
	Border     = lipgloss.Color("#333333")
	Highlight  = lipgloss.Color("#4ECDC4")
)

// CategoryColors tints goals by category
var CategoryColors = map[model.Category]lipgloss.Color{
	model.CategoryTravel:       lipgloss.Color("#4ECDC4"),
	model.CategoryHobby:        lipgloss.Color("#C792EA"),
	model.CategoryCareer:       lipgloss.Color("#FFB347"),
	model.CategoryRelationship: lipgloss.Color("#FF8FAB"),
	model.CategoryHealth:       lipgloss.Color("#95E1A3"),
	model.CategoryOther:        lipgloss.Color("#888888"),
}

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	// Sidebar
	SidebarStyle = lipgloss.NewStyle().
			Width(20).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(Border).
			Padding(1, 1)

	// Goal list
	GoalListStyle = lipgloss.NewStyle().
			Padding(1, 2)

	// Sidebar item
	FilterItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	FilterItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	// Goal or task item
	ItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	ItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	ItemDoneStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Strikethrough(true).
			Padding(0, 1)

	// Priority badges
	PriorityHighStyle   = lipgloss.NewStyle().Foreground(PriorityHigh).Bold(true)
	PriorityMediumStyle = lipgloss.NewStyle().Foreground(PriorityMedium)
	PriorityLowStyle    = lipgloss.NewStyle().Foreground(PriorityLow)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	// Input modal
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// GetPriorityStyle returns the style for a given priority
func GetPriorityStyle(p model.Priority) lipgloss.Style {
	switch p {
	case model.PriorityHigh:
		return PriorityHighStyle
	case model.PriorityLow:
		return PriorityLowStyle
	default:
		return PriorityMediumStyle
	}
}

// FormatPriority returns a formatted priority badge
func FormatPriority(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return PriorityHighStyle.Render("!!!")
	case model.PriorityLow:
		return PriorityLowStyle.Render("!  ")
	default:
		return PriorityMediumStyle.Render("!! ")
	}
}

// FormatCategory renders a category in its color
func FormatCategory(c model.Category) string {
	return lipgloss.NewStyle().Foreground(CategoryColors[c]).Render(string(c))
}
