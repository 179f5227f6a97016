package tui

import (
	"os"
	"strconv"
	"strings"

	"datepicker/internal/store"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The calendar must stay readable on light and dark terminals, so every
// color is an AdaptiveColor and "faint" is only used on dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

type palette struct {
	muted      lipgloss.TerminalColor
	surfaceFg  lipgloss.TerminalColor
	inputBg    lipgloss.TerminalColor
	accent     lipgloss.TerminalColor
	accentFg   lipgloss.TerminalColor
	today      lipgloss.TerminalColor
	cursorBg   lipgloss.TerminalColor
	disabledFg lipgloss.TerminalColor
	errorFg    lipgloss.TerminalColor
}

func defaultPalette() palette {
	return palette{
		muted:      ac("240", "243"),
		surfaceFg:  ac("235", "252"),
		inputBg:    ac("254", "234"),
		accent:     ac("27", "62"),
		accentFg:   ac("255", "235"),
		today:      ac("166", "214"),
		cursorBg:   ac("#e9e9e9", "#3a3a3a"),
		disabledFg: ac("250", "239"),
		errorFg:    ac("160", "203"),
	}
}

// withAccent applies a configured selection color.
func (p palette) withAccent(c *store.AdaptiveColor) palette {
	if c == nil {
		return p
	}
	light, dark := strings.TrimSpace(c.Light), strings.TrimSpace(c.Dark)
	if light == "" && dark == "" {
		return p
	}
	if light == "" {
		light = dark
	}
	if dark == "" {
		dark = light
	}
	p.accent = ac(light, dark)
	return p
}

type styles struct {
	title     lipgloss.Style
	active    lipgloss.Style
	nav       lipgloss.Style
	weekday   lipgloss.Style
	cell      lipgloss.Style
	selected  lipgloss.Style
	today     lipgloss.Style
	disabled  lipgloss.Style
	cursor    lipgloss.Style
	input     lipgloss.Style
	focused   lipgloss.Style
	hint      lipgloss.Style
	errorLine lipgloss.Style
}

const cellWidth = 4

func newStyles(p palette) styles {
	base := lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center)
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(p.surfaceFg),
		active:    lipgloss.NewStyle().Bold(true).Underline(true).Foreground(p.accent),
		nav:       faintIfDark(lipgloss.NewStyle().Foreground(p.muted)),
		weekday:   faintIfDark(base.Foreground(p.muted)),
		cell:      base.Foreground(p.surfaceFg),
		selected:  base.Bold(true).Foreground(p.accentFg).Background(p.accent),
		today:     base.Bold(true).Foreground(p.today),
		disabled:  base.Strikethrough(true).Foreground(p.disabledFg),
		cursor:    lipgloss.NewStyle().Background(p.cursorBg),
		input:     lipgloss.NewStyle().Background(p.inputBg),
		focused:   lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(p.accent).PaddingLeft(1),
		hint:      faintIfDark(lipgloss.NewStyle().Foreground(p.muted)),
		errorLine: lipgloss.NewStyle().Foreground(p.errorFg),
	}
}

// applyColorProfilePreference sets Lip Gloss's color profile. termenv's
// EnvColorProfile would also honor CLICOLOR, which can disable colors in a
// TUI; only NO_COLOR is respected here.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}
	lipgloss.SetColorProfile(profile)
}

// resolvePalette decides light vs dark. Priority: DATEPICKER_TUI_THEME, the
// configured palette, then the COLORFGBG heuristic ("fg;bg"). It returns
// "light" or "dark" when a choice was made, "" to keep terminal detection.
func resolvePalette(configured string) string {
	for _, v := range []string{os.Getenv("DATEPICKER_TUI_THEME"), configured} {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "light":
			return "light"
		case "dark":
			return "dark"
		}
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			if bg < 7 {
				return "dark"
			}
			return "light"
		}
	}
	return ""
}

func applyThemePreference(configured string) {
	switch resolvePalette(configured) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	}
}
