package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mergerun-td/internal/core"
	"github.com/vovakirdan/mergerun-td/internal/engine"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:   lipgloss.NewStyle(),
	core.ColorDim:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	core.ColorAccent:    lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
	core.ColorSelected:  lipgloss.NewStyle().Foreground(lipgloss.Color("57")).Bold(true),
	core.ColorShooter:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorSplash:    lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorSlow:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorWall:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorEnemy:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorFastEnemy: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorTankEnemy: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBoss:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	core.ColorBase:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	core.ColorCoins:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorDanger:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
}

func styleFor(c core.Color) lipgloss.Style {
	if style, ok := colorStyles[c]; ok {
		return style
	}
	return colorStyles[core.ColorDefault]
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells with the same color are rendered as one run.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}
			sb.WriteString(styleFor(startColor).Render(run.String()))
		}
	}
	return sb.String()
}

// Maximum lines in the event log panel.
const maxLogLines = 6

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	offerStyle   = panelStyle.BorderForeground(lipgloss.Color("229"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	bannerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 2)
)

// render draws the whole run screen.
func (m Model) render() string {
	st := m.sess.State()
	tables := m.sess.Engine().Tables()

	field := RenderScreen(drawField(st, m.cursor, m.selected))
	side := lipgloss.JoinVertical(lipgloss.Left,
		renderShop(st, tables),
		renderOffer(st),
		renderLog(m.sess.Events()),
	)

	var b strings.Builder
	b.WriteString(titleStyle.Render(renderHeader(st, tables)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, field, "  ", side))
	b.WriteString("\n")

	switch {
	case st.Ended():
		b.WriteString(renderBanner(st.End))
		b.WriteString("\n")
	case m.paused:
		b.WriteString(bannerStyle.Foreground(lipgloss.Color("229")).Render("PAUSED"))
		b.WriteString("\n")
	}
	if m.message != "" {
		b.WriteString(messageStyle.Render(m.message))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func renderHeader(st engine.RunState, tables *engine.Tables) string {
	return fmt.Sprintf("Stage %d  Wave %d/%d  %-9s  HP %d  Coins %d  %s",
		st.StageIndex+1,
		min(st.WaveIndex+1, waveCount(st, tables)),
		waveCount(st, tables),
		st.Phase,
		st.BaseHP,
		st.Coins,
		formatClock(st.TimeMs),
	)
}

func waveCount(st engine.RunState, tables *engine.Tables) int {
	if st.StageIndex < 0 || st.StageIndex >= len(tables.Stages) {
		return 0
	}
	return min(len(tables.Stages[st.StageIndex].Waves), engine.MaxWavesPerStage)
}

func formatClock(ms int64) string {
	sec := ms / 1000
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}

func renderShop(st engine.RunState, tables *engine.Tables) string {
	var b strings.Builder
	b.WriteString("Shop\n")

	empty := false
	for i, slot := range st.Shop.Slots {
		if slot.Empty() {
			empty = true
			b.WriteString(dimStyle.Render(fmt.Sprintf("[%d] empty", i+1)))
		} else {
			color := core.ColorDefault
			if def, ok := tables.Unit(slot.UnitID); ok {
				color = core.RoleColor(string(def.Role))
			}
			b.WriteString(fmt.Sprintf("[%d] ", i+1))
			b.WriteString(styleFor(color).Render(fmt.Sprintf("%-8s", slot.UnitID)))
			b.WriteString(fmt.Sprintf(" %dc", tables.Shop.BuyCost))
		}
		b.WriteString("\n")
	}

	if st.FreeRerolls > 0 {
		b.WriteString(fmt.Sprintf("Reroll: free (%d)", st.FreeRerolls))
	} else {
		b.WriteString(fmt.Sprintf("Reroll: %dc", max(0, tables.Shop.RerollCost+st.RerollCostDelta)))
	}
	if empty {
		refill := tables.Shop.RefillMs
		if refill <= 0 {
			refill = engine.DefaultRefillMs
		}
		left := max(0, refill-st.Shop.RefillTimerMs)
		b.WriteString(fmt.Sprintf("\nRestock in %.1fs", float64(left)/1000))
	}
	return panelStyle.Render(b.String())
}

func renderOffer(st engine.RunState) string {
	if st.Offer == nil {
		return ""
	}
	left := max(0, st.Offer.DeadlineMs-st.TimeMs)
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Upgrade! %ds left\n", (left+999)/1000))
	for i, u := range st.Offer.Options {
		if i > 0 {
			b.WriteString("\n")
		}
		name := u.Name
		if name == "" {
			name = u.ID
		}
		b.WriteString(fmt.Sprintf("[%d] %s ", i+1, name))
		b.WriteString(dimStyle.Render(strings.ToLower(string(u.Type))))
	}
	return offerStyle.Render(b.String())
}

func renderLog(events []engine.Event) string {
	lines := make([]string, 0, maxLogLines)
	for i := len(events) - 1; i >= 0 && len(lines) < maxLogLines; i-- {
		if text := describeEvent(events[i]); text != "" {
			lines = append(lines, text)
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return panelStyle.Render(dimStyle.Render(strings.Join(lines, "\n")))
}

// describeEvent returns a log line for ev, or "" for events too frequent to list.
func describeEvent(ev engine.Event) string {
	switch ev.Kind {
	case engine.EventWaveStarted:
		return fmt.Sprintf("Wave %d started", ev.Wave)
	case engine.EventWaveEnded:
		return fmt.Sprintf("Wave %d cleared", ev.Wave)
	case engine.EventBaseDamaged:
		return fmt.Sprintf("Base hit for %d", ev.Amount)
	case engine.EventEnemyKilled:
		return fmt.Sprintf("%s killed +%dc", ev.EnemyType, ev.Amount)
	case engine.EventUpgradeOffered:
		return fmt.Sprintf("Upgrade offered after wave %d", ev.Wave)
	case engine.EventUpgradeApplied:
		if ev.Auto {
			return "Auto picked: " + ev.Upgrade
		}
		return "Upgrade: " + ev.Upgrade
	case engine.EventRunEnded:
		return "Run ended: " + ev.End.String()
	default:
		return ""
	}
}

func renderBanner(end engine.RunEnd) string {
	switch end {
	case engine.RunVictory:
		return bannerStyle.Foreground(lipgloss.Color("10")).Render("VICTORY") +
			dimStyle.Render("  n next stage  R retry  q quit")
	case engine.RunDefeat:
		return bannerStyle.Foreground(lipgloss.Color("9")).Render("DEFEAT") +
			dimStyle.Render("  R retry  q quit")
	default:
		return ""
	}
}
