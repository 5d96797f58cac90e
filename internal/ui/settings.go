package ui

import (
	"context"
	"slices"
	"strings"
	"unicode"

	"github.com/dshills/gamemaker/internal/config"
	"github.com/dshills/gamemaker/internal/render"
	"github.com/dshills/gamemaker/internal/screen"
)

// Providers offered by the settings screen, in cycle order. The empty
// provider runs offline.
var settingsProviders = []string{"", "anthropic", "openai", "google"}

// Keyboard layout.
var keyboardRows = []string{
	"1234567890",
	"qwertyuiop",
	"asdfghjkl",
	"zxcvbnm_-.",
}

const (
	keyWidth    = 28
	keyHeight   = 35
	keyboardTop = 200
	maxField    = 120
)

type settingsField int

const (
	fieldNone settingsField = iota
	fieldAPIKey
	fieldModel
)

type key struct {
	btn *screen.Button
	ch  rune
}

// settingsScreen edits the generation settings.
type settingsScreen struct {
	base

	settings *config.Settings
	editing  settingsField
	buffer   []rune
	caps     bool
	status   string
	save     bool

	provider *screen.Button
	apiKey   *screen.Button
	model    *screen.Button
	back     *screen.Button
	store    *screen.Button

	keys   []key
	shift  *screen.Button
	space  *screen.Button
	erase  *screen.Button
	ok     *screen.Button
	cancel *screen.Button
}

// Settings creates the settings screen.
func (s *Shell) Settings() screen.Screen {
	sc := &settingsScreen{
		base:     s.newBase("settings"),
		settings: s.opts.Settings,
		provider: screen.NewButton(20, 80, 280, 40, "", render.White, render.ButtonBG),
		apiKey:   screen.NewButton(20, 130, 280, 40, "", render.Secondary, render.ButtonBG),
		model:    screen.NewButton(20, 180, 280, 40, "", render.Secondary, render.ButtonBG),
		back:     screen.NewButton(20, 430, 80, 35, "Back", render.White, render.ButtonBG),
		store:    screen.NewButton(220, 430, 80, 35, "Save", render.White, render.Success),
		shift:    screen.NewButton(10, keyboardTop+4*(keyHeight+5), 45, keyHeight, "CAP", render.Secondary, render.ButtonBG),
		space:    screen.NewButton(60, keyboardTop+4*(keyHeight+5), 200, keyHeight, "SPACE", render.Secondary, render.ButtonBG),
		erase:    screen.NewButton(265, keyboardTop+4*(keyHeight+5), 45, keyHeight, "<-", render.Accent, render.ButtonBG),
		ok:       screen.NewButton(230, 430, 70, 35, "OK", render.White, render.Success),
		cancel:   screen.NewButton(20, 430, 70, 35, "Cancel", render.Accent, render.ButtonBG),
	}
	for row, chars := range keyboardRows {
		x0 := (320 - len(chars)*keyWidth) / 2
		for col, ch := range chars {
			btn := screen.NewButton(x0+col*keyWidth, keyboardTop+row*(keyHeight+5), keyWidth-2, keyHeight, string(ch), render.White, render.ButtonBG)
			sc.keys = append(sc.keys, key{btn: btn, ch: ch})
		}
	}
	sc.store.Disabled = sc.settings == nil
	return sc
}

func (sc *settingsScreen) Enter(context.Context) {
	sc.editing = fieldNone
	sc.status = ""
	sc.refresh()
}

func (sc *settingsScreen) Update(ctx context.Context) {
	if !sc.save {
		return
	}
	sc.save = false
	if err := sc.settings.Save(); err != nil {
		sc.logger.Error("saving settings failed: %v", err)
		sc.status = "Could not save"
		return
	}
	if fn := sc.shell.opts.Reconfigure; fn != nil {
		if err := fn(ctx); err != nil {
			sc.logger.Error("applying settings failed: %v", err)
			sc.status = "Saved, but not applied"
			return
		}
	}
	sc.logger.Info("settings saved to %s", sc.settings.Path())
	sc.status = "Saved"
}

func (sc *settingsScreen) refresh() {
	provider, key, model := "", "", ""
	if sc.settings != nil {
		provider, key, model = sc.settings.Provider(), sc.settings.APIKey(), sc.settings.Model()
	}
	if provider == "" {
		provider = "offline"
	}
	if model == "" {
		model = "(default)"
	}
	sc.provider.Label = "Provider: " + provider
	sc.apiKey.Label = "API key: " + config.MaskKey(key)
	sc.model.Label = "Model: " + clip(model, 30)
}

func (sc *settingsScreen) Draw() {
	r := sc.r
	r.Fill(render.Background)
	r.Rect(0, 0, r.Width(), 50, render.Black, true)
	r.Circle(25, 25, 9, render.TextSecondary, false)
	r.Circle(25, 25, 3, render.TextSecondary, true)
	r.Text(45, 12, "SETTINGS", render.White, 2)

	if sc.editing != fieldNone {
		sc.drawKeyboard(r)
		sc.flush()
		return
	}

	r.Text(20, 60, "Generation", render.TextSecondary, 1)
	sc.provider.Draw(r)
	sc.apiKey.Draw(r)
	sc.model.Draw(r)
	if sc.status != "" {
		r.TextCentered(250, sc.status, render.Success, 1)
	}
	sc.back.Draw(r)
	sc.store.Draw(r)
	sc.flush()
}

func (sc *settingsScreen) drawKeyboard(r *render.Renderer) {
	title := "API key"
	if sc.editing == fieldModel {
		title = "Model"
	}
	r.Text(20, 70, title+":", render.TextSecondary, 1)
	r.RoundedRect(20, 90, 280, 40, 6, render.ButtonBG, true)
	r.RoundedRect(20, 90, 280, 40, 6, render.Primary, false)
	text := string(sc.buffer)
	if n := len(sc.buffer); n > 36 {
		text = string(sc.buffer[n-36:])
	}
	r.Text(28, 104, text+"_", render.White, 1)

	for _, k := range sc.keys {
		k.btn.Label = string(sc.shifted(k.ch))
		k.btn.Draw(r)
	}
	sc.shift.Background = render.ButtonBG
	if sc.caps {
		sc.shift.Background = render.Primary
	}
	sc.shift.Draw(r)
	sc.space.Draw(r)
	sc.erase.Draw(r)
	sc.ok.Draw(r)
	sc.cancel.Draw(r)
}

func (sc *settingsScreen) shifted(ch rune) rune {
	if sc.caps {
		return unicode.ToUpper(ch)
	}
	return ch
}

func (sc *settingsScreen) HandleTouch(x, y int) {
	if !sc.gate.Accept() || sc.save {
		return
	}
	if sc.editing != fieldNone {
		sc.touchKeyboard(x, y)
		return
	}

	switch {
	case sc.settings != nil && sc.provider.Contains(x, y):
		i := slices.Index(settingsProviders, sc.settings.Provider())
		next := settingsProviders[(i+1)%len(settingsProviders)]
		sc.settings.SetProvider(next)
		sc.settings.SetModel("")
		sc.status = ""
		sc.refresh()
	case sc.settings != nil && sc.apiKey.Contains(x, y):
		sc.edit(fieldAPIKey, "")
	case sc.settings != nil && sc.model.Contains(x, y):
		sc.edit(fieldModel, sc.settings.Model())
	case sc.back.Contains(x, y):
		if sc.settings != nil {
			if err := sc.settings.Load(); err != nil {
				sc.logger.Warn("discarding changes failed: %v", err)
			}
		}
		sc.shell.change(sc.shell.Menu())
	case sc.store.Contains(x, y):
		sc.save = true
	}
}

func (sc *settingsScreen) edit(field settingsField, initial string) {
	sc.editing = field
	sc.buffer = []rune(initial)
	sc.caps = false
}

func (sc *settingsScreen) touchKeyboard(x, y int) {
	for _, k := range sc.keys {
		if k.btn.Contains(x, y) {
			if len(sc.buffer) < maxField {
				sc.buffer = append(sc.buffer, sc.shifted(k.ch))
			}
			return
		}
	}
	switch {
	case sc.shift.Contains(x, y):
		sc.caps = !sc.caps
	case sc.space.Contains(x, y):
		if len(sc.buffer) < maxField {
			sc.buffer = append(sc.buffer, ' ')
		}
	case sc.erase.Contains(x, y):
		if n := len(sc.buffer); n > 0 {
			sc.buffer = sc.buffer[:n-1]
		}
	case sc.ok.Contains(x, y):
		value := strings.TrimSpace(string(sc.buffer))
		if sc.editing == fieldAPIKey {
			sc.settings.SetAPIKey(value)
		} else {
			sc.settings.SetModel(value)
		}
		sc.editing = fieldNone
		sc.status = ""
		sc.refresh()
	case sc.cancel.Contains(x, y):
		sc.editing = fieldNone
	}
}
