package ui

import (
	"context"
	"strconv"

	"github.com/dshills/gamemaker/internal/plugin"
	"github.com/dshills/gamemaker/internal/render"
	"github.com/dshills/gamemaker/internal/screen"
)

// Menu entries, in display order.
const (
	menuCreateGame = iota
	menuGames
	menuCreateApp
	menuApps
	menuSettings
	menuAbout
)

// menuScreen is the main menu.
type menuScreen struct {
	base

	buttons   []*screen.Button
	gameCount int
	appCount  int
}

// Menu creates the main menu.
func (s *Shell) Menu() screen.Screen {
	labels := []string{"CREATE GAME", "MY GAMES", "CREATE APP", "MY APPS", "SETTINGS", "ABOUT"}
	m := &menuScreen{base: s.newBase("menu")}
	for i, label := range labels {
		fg, bg := render.Primary, render.ButtonBG
		switch i {
		case menuCreateGame, menuCreateApp:
			fg, bg = render.White, render.Primary
		case menuSettings, menuAbout:
			fg = render.TextSecondary
		}
		m.buttons = append(m.buttons, screen.NewButton(70, 70+i*58, 180, 46, label, fg, bg))
	}
	return m
}

func (m *menuScreen) Enter(ctx context.Context) {
	m.gameCount = m.count(ctx, plugin.KindGame)
	m.appCount = m.count(ctx, plugin.KindApp)
	m.logger.Debug("found %d games and %d apps", m.gameCount, m.appCount)
}

func (m *menuScreen) count(ctx context.Context, kind plugin.Kind) int {
	store := m.shell.Store(kind)
	if store == nil {
		return 0
	}
	entries, err := store.List(ctx)
	if err != nil {
		m.logger.Warn("listing %s failed: %v", kind.Collection(), err)
		return 0
	}
	return len(entries)
}

func (m *menuScreen) Draw() {
	r := m.r
	r.Fill(render.Background)

	r.Rect(0, 0, r.Width(), 45, render.Black, true)
	r.Circle(25, 22, 12, render.Primary, true)
	r.Triangle(21, 15, 21, 29, 31, 22, render.White, true)
	r.Text(45, 9, "MAIN MENU", render.White, 2)

	for _, b := range m.buttons {
		b.Draw(r)
	}
	badge(r, m.buttons[menuGames], m.gameCount)
	badge(r, m.buttons[menuApps], m.appCount)
	m.flush()
}

// badge draws a count bubble on the right edge of b.
func badge(r *render.Renderer, b *screen.Button, n int) {
	if n <= 0 {
		return
	}
	x, y := b.X+b.W-4, b.Y+4
	s := strconv.Itoa(n)
	r.Circle(x, y, 11, render.Accent, true)
	r.Text(x-render.TextWidth(s, 1)/2, y-render.GlyphHeight/2, s, render.White, 1)
}

func (m *menuScreen) HandleTouch(x, y int) {
	if !m.gate.Accept() {
		return
	}
	for i, b := range m.buttons {
		if !b.Contains(x, y) {
			continue
		}
		m.logger.Info("%s pressed", b.Label)
		switch i {
		case menuCreateGame:
			m.shell.change(m.shell.Builder(plugin.KindGame))
		case menuGames:
			m.shell.change(m.shell.Explorer(plugin.KindGame))
		case menuCreateApp:
			m.shell.change(m.shell.Builder(plugin.KindApp))
		case menuApps:
			m.shell.change(m.shell.Explorer(plugin.KindApp))
		case menuSettings:
			m.shell.change(m.shell.Settings())
		case menuAbout:
			m.shell.change(m.shell.About())
		}
		return
	}
}
