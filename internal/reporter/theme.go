package reporter

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Theme 终端输出的颜色与图标
type Theme struct {
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Icons   Icons
}

type Icons struct {
	Pass string
	Fail string
	Warn string
}

func DefaultTheme() Theme {
	return Theme{
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),  // 绿
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // 橙
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // 红
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("242")), // 灰
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons:   Icons{Pass: "✅", Fail: "❌", Warn: "⚠️"},
	}
}

// MonoTheme 不带任何样式，用于管道和 NO_COLOR
func MonoTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Success: plain,
		Warning: plain,
		Error:   plain,
		Muted:   plain,
		Bold:    plain,
		Icons:   Icons{Pass: "✅", Fail: "❌", Warn: "⚠️"},
	}
}

// ThemeFor 根据输出目标选择主题
func ThemeFor(w io.Writer) Theme {
	if os.Getenv("NO_COLOR") != "" {
		return MonoTheme()
	}
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return MonoTheme()
	}
	return DefaultTheme()
}
