package ui

import (
	"context"
	"fmt"

	"github.com/dshills/gamemaker/internal/plugin"
	"github.com/dshills/gamemaker/internal/render"
	"github.com/dshills/gamemaker/internal/screen"
	"github.com/dshills/gamemaker/internal/storage"
)

// List geometry.
const (
	listTop     = 60
	itemHeight  = 52
	itemBox     = 45
	maxVisible  = 6
	dateLayout  = "02/01/2006 15:04"
	nameColumns = 30
)

// explorerScreen lists the stored plugins of one kind.
type explorerScreen struct {
	base

	kind     plugin.Kind
	entries  []storage.Entry
	selected int
	offset   int
	pending  bool
	doomed   string

	play   *screen.Button
	remove *screen.Button
	back   *screen.Button
	up     *screen.Button
	down   *screen.Button
}

// Explorer creates the stored plugin list for kind.
func (s *Shell) Explorer(kind plugin.Kind) screen.Screen {
	playLabel := "PLAY"
	if kind == plugin.KindApp {
		playLabel = "OPEN"
	}
	return &explorerScreen{
		base:   s.newBase(kind.String() + "-explorer"),
		kind:   kind,
		play:   screen.NewButton(10, 430, 95, 35, playLabel, render.White, render.Success),
		remove: screen.NewButton(112, 430, 95, 35, "Delete", render.Accent, render.ButtonBG),
		back:   screen.NewButton(215, 430, 95, 35, "Back", render.White, render.ButtonBG),
		up:     screen.NewButton(20, 380, 135, 30, "^", render.Primary, render.ButtonBG),
		down:   screen.NewButton(165, 380, 135, 30, "v", render.Primary, render.ButtonBG),
	}
}

func (e *explorerScreen) Enter(ctx context.Context) {
	e.reload(ctx)
}

func (e *explorerScreen) Update(ctx context.Context) {
	if e.doomed != "" {
		key := e.doomed
		e.doomed = ""
		if err := e.shell.Store(e.kind).Delete(ctx, key); err != nil {
			e.logger.Error("deleting %s failed: %v", key, err)
		}
	}
	if e.pending {
		e.reload(ctx)
	}
}

func (e *explorerScreen) reload(ctx context.Context) {
	e.pending = false
	entries, err := e.shell.Store(e.kind).List(ctx)
	if err != nil {
		e.logger.Error("listing %s failed: %v", e.kind.Collection(), err)
	}
	e.entries = entries
	e.offset = 0
	e.selected = -1
	if len(entries) > 0 {
		e.selected = 0
	}
	e.logger.Info("loaded %d %s", len(entries), e.kind.Collection())
}

func (e *explorerScreen) Draw() {
	r := e.r
	r.Fill(render.Background)

	r.Rect(0, 0, r.Width(), 50, render.Black, true)
	r.Rect(15, 14, 18, 22, render.Secondary, false)
	r.HLine(15, 21, 18, render.Secondary)
	title := "MY GAMES"
	if e.kind == plugin.KindApp {
		title = "MY APPS"
	}
	r.Text(45, 12, title, render.White, 2)
	r.TextRight(r.Width()-10, 32, fmt.Sprintf("%d %s", len(e.entries), e.kind.Collection()), render.Secondary, 1)

	if len(e.entries) == 0 {
		r.TextCentered(150, "Nothing here yet", render.TextSecondary, 2)
		r.TextCentered(180, "Create your first "+e.kind.String()+"!", render.TextSecondary, 1)
		e.back.Draw(r)
		e.flush()
		return
	}

	for i := 0; i < maxVisible; i++ {
		idx := e.offset + i
		if idx >= len(e.entries) {
			break
		}
		e.drawItem(r, e.entries[idx], listTop+i*itemHeight, idx == e.selected)
	}

	e.up.Disabled = e.offset == 0
	e.down.Disabled = e.offset+maxVisible >= len(e.entries)
	e.up.Draw(r)
	e.down.Draw(r)
	e.play.Draw(r)
	e.remove.Draw(r)
	e.back.Draw(r)
	e.flush()
}

func (e *explorerScreen) drawItem(r *render.Renderer, entry storage.Entry, y int, selected bool) {
	fill, border, text := render.Black, render.ButtonBorder, render.TextSecondary
	icon, glyph := render.ButtonBG, render.TextSecondary
	if selected {
		fill, border, text = render.ButtonBG, render.Primary, render.White
		icon, glyph = render.Primary, render.White
	}
	r.RoundedRect(10, y, 300, itemBox, 6, fill, true)
	r.RoundedRect(10, y, 300, itemBox, 6, border, false)

	cx, cy := 30, y+22
	r.Circle(cx, cy, 12, icon, true)
	r.Triangle(cx-3, cy-6, cx-3, cy+6, cx+5, cy, glyph, true)

	name := entry.Name
	if name == "" {
		name = entry.Key
	}
	r.Text(50, y+6, clip(name, nameColumns), text, 1)
	r.Text(50, y+24, entry.CreatedAt.Local().Format(dateLayout), render.TextSecondary, 1)
	verb := "Played"
	if e.kind == plugin.KindApp {
		verb = "Used"
	}
	r.TextRight(300, y+24, fmt.Sprintf("%s %dx", verb, entry.UsageCount), render.TextSecondary, 1)
}

func (e *explorerScreen) HandleTouch(x, y int) {
	if !e.gate.Accept() || e.pending {
		return
	}

	if len(e.entries) == 0 {
		if e.back.Contains(x, y) {
			e.shell.change(e.shell.Menu())
		}
		return
	}

	if x >= 10 && x <= 310 && y >= listTop && y < listTop+maxVisible*itemHeight {
		idx := e.offset + (y-listTop)/itemHeight
		if idx < len(e.entries) {
			e.selected = idx
			e.logger.Debug("selected %s", e.entries[idx].Key)
		}
		return
	}

	switch {
	case e.up.Contains(x, y):
		e.offset = max(e.offset-maxVisible, 0)
	case e.down.Contains(x, y):
		if e.offset+maxVisible < len(e.entries) {
			e.offset += maxVisible
		}
	case e.play.Contains(x, y):
		if entry, ok := e.current(); ok {
			e.logger.Info("starting %s %s", e.kind, entry.Key)
			e.shell.change(e.shell.Runner(e.kind, entry.Key))
		}
	case e.remove.Contains(x, y):
		if entry, ok := e.current(); ok {
			e.logger.Warn("deleting %s %s", e.kind, entry.Key)
			e.doomed = entry.Key
			e.pending = true
		}
	case e.back.Contains(x, y):
		e.shell.change(e.shell.Menu())
	}
}

func (e *explorerScreen) current() (storage.Entry, bool) {
	if e.selected < 0 || e.selected >= len(e.entries) {
		return storage.Entry{}, false
	}
	return e.entries[e.selected], true
}
