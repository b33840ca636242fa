package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sqlainsaad5/eventify-bell/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps overlay content such as help.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle renders an unfocused notification row.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the focused notification.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// DimmedStyle renders read notifications.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// UnreadDotStyle renders the marker in front of unread notifications.
var UnreadDotStyle = lipgloss.NewStyle().
	Foreground(ColorBlue).
	Bold(true)

// NewCountStyle renders the "N NEW" counter in the header.
var NewCountStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorRed).
	Padding(0, 1)

// TimeStyle renders the relative creation time of a notification.
var TimeStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// HelpStyle renders key hints.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ToastStyle and ErrorStyle color transient status bar messages.
var (
	ToastStyle = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
)

// Badge labels shown in front of a notification title.
const (
	BadgeMessage = "Message"
	BadgeBooking = "Booking"
	BadgePayment = "Payment"
)

// Badge returns the badge label for n, or "" when it gets none.
func Badge(n model.Notification) string {
	switch {
	case n.Type == model.TypeChat:
		return BadgeMessage
	case n.Payload != nil && n.Payload.References().Kind == "booking":
		return BadgeBooking
	case n.Type == model.TypePayment:
		return BadgePayment
	default:
		return ""
	}
}

// BadgeStyle returns a color-coded style for a badge label.
func BadgeStyle(label string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch label {
	case BadgeMessage:
		return base.Foreground(ColorBlue)
	case BadgeBooking:
		return base.Foreground(ColorMagenta)
	case BadgePayment:
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}
