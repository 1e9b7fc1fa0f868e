package tui

// Color constants for the llmlog TUI theme
const (
	ColorCardBackground = "#1B1530" // Dark purple
	ColorBorder         = "#3A3F55" // Grey-blue

	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383"
	ColorHelpText      = "240"

	ColorAccentMain   = "#7C3AED" // Active borders, selected row
	ColorAccentBright = "#A78BFA" // Headers, highlights

	ColorError   = "#EF4444" // Errors, not_okay
	ColorSuccess = "#22C55E" // Saves, okay
	ColorWarning = "#F59E0B" // Unsaved changes
)
