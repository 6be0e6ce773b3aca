package plotpage

// Theme selects a color theme for rendered pages.
type Theme string

const (
	// ThemeLight is the light color theme.
	ThemeLight Theme = "light"
	// ThemeDark is the dark color theme.
	ThemeDark Theme = "dark"
)

// ThemeConfig holds the theme-specific styling values used by page templates
// and chart options.
type ThemeConfig struct {
	// Base colors.
	Background string
	Surface    string
	Border     string

	// Text colors.
	TextPrimary   string
	TextSecondary string
	TextMuted     string

	// Accent colors.
	Accent       string
	AccentSubtle string
	AccentText   string

	// Semantic colors.
	Success       string
	SuccessSubtle string
	Warning       string
	WarningSubtle string
	Error         string
	ErrorSubtle   string
	Info          string
	InfoSubtle    string

	// Chart-specific.
	ChartBackground string
	ChartGrid       string
	ChartAxis       string
	ChartText       string
	ChartTextMuted  string
}

// ChartPalette is a consistent color set for chart series. Growth is the
// adverse direction for artifact size, so Grown maps to the error hue.
type ChartPalette struct {
	Primary  []string
	Semantic struct {
		Grown  string
		Shrunk string
		Stable string
	}
}

// GetThemeConfig returns the configuration for a theme.
func GetThemeConfig(theme Theme) ThemeConfig {
	if theme == ThemeDark {
		return darkTheme
	}

	return lightTheme
}

// GetChartPalette returns the chart color palette for a theme.
func GetChartPalette(theme Theme) ChartPalette {
	if theme == ThemeDark {
		return darkChartPalette
	}

	return lightChartPalette
}

var lightTheme = ThemeConfig{
	Background: "#f8fafc", // slate-50.
	Surface:    "#ffffff",
	Border:     "#e2e8f0", // slate-200.

	TextPrimary:   "#0f172a", // slate-900.
	TextSecondary: "#334155", // slate-700.
	TextMuted:     "#64748b", // slate-500.

	Accent:       "#2563eb", // blue-600.
	AccentSubtle: "#dbeafe", // blue-100.
	AccentText:   "#ffffff",

	Success:       "#16a34a", // green-600.
	SuccessSubtle: "#dcfce7", // green-100.
	Warning:       "#ca8a04", // yellow-600.
	WarningSubtle: "#fef9c3", // yellow-100.
	Error:         "#dc2626", // red-600.
	ErrorSubtle:   "#fee2e2", // red-100.
	Info:          "#0284c7", // sky-600.
	InfoSubtle:    "#e0f2fe", // sky-100.

	ChartBackground: "transparent",
	ChartGrid:       "#e2e8f0", // slate-200.
	ChartAxis:       "#94a3b8", // slate-400.
	ChartText:       "#334155", // slate-700.
	ChartTextMuted:  "#64748b", // slate-500.
}

var darkTheme = ThemeConfig{
	Background: "#020617", // slate-950.
	Surface:    "#0f172a", // slate-900.
	Border:     "#334155", // slate-700.

	TextPrimary:   "#f8fafc", // slate-50.
	TextSecondary: "#cbd5e1", // slate-300.
	TextMuted:     "#94a3b8", // slate-400.

	Accent:       "#3b82f6", // blue-500.
	AccentSubtle: "#172554", // blue-950.
	AccentText:   "#ffffff",

	Success:       "#22c55e", // green-500.
	SuccessSubtle: "#14532d", // green-900.
	Warning:       "#eab308", // yellow-500.
	WarningSubtle: "#422006", // yellow-950.
	Error:         "#ef4444", // red-500.
	ErrorSubtle:   "#450a0a", // red-950.
	Info:          "#38bdf8", // sky-400.
	InfoSubtle:    "#0c4a6e", // sky-900.

	ChartBackground: "transparent",
	ChartGrid:       "#334155", // slate-700.
	ChartAxis:       "#475569", // slate-600.
	ChartText:       "#cbd5e1", // slate-300.
	ChartTextMuted:  "#94a3b8", // slate-400.
}

var lightChartPalette = newPalette(
	[]string{
		"#2563eb", // blue-600 (accent).
		"#0891b2", // cyan-600.
		"#7c3aed", // violet-600.
		"#be185d", // pink-700.
		"#c2410c", // orange-700.
		"#15803d", // green-700.
	},
	"#dc2626", "#16a34a", "#64748b",
)

var darkChartPalette = newPalette(
	[]string{
		"#60a5fa", // blue-400 (accent).
		"#22d3ee", // cyan-400.
		"#a78bfa", // violet-400.
		"#f472b6", // pink-400.
		"#fb923c", // orange-400.
		"#4ade80", // green-400.
	},
	"#f87171", "#4ade80", "#94a3b8",
)

func newPalette(primary []string, grown, shrunk, stable string) ChartPalette {
	p := ChartPalette{Primary: primary}
	p.Semantic.Grown = grown
	p.Semantic.Shrunk = shrunk
	p.Semantic.Stable = stable

	return p
}
