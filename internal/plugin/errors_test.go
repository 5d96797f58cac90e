package plugin

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	plua "github.com/dshills/gamemaker/internal/plugin/lua"
)

func TestFaultMessage(t *testing.T) {
	tests := []struct {
		name  string
		fault *Fault
		want  string
	}{
		{
			name:  "load",
			fault: &Fault{Kind: LoadError, Phase: PhaseLoad, Err: errors.New("missing")},
			want:  "could not load: missing",
		},
		{
			name:  "contract",
			fault: &Fault{Kind: ContractError, Phase: PhaseLoad, Err: errors.New("no Game class")},
			want:  "Error: no Game class",
		},
		{
			name:  "update",
			fault: &Fault{Kind: RuntimeFault, Phase: PhaseUpdate, Err: &plua.ScriptError{Kind: plua.ErrRuntime, Message: "demo:3: boom\nstack"}},
			want:  "update error: demo:3: boom",
		},
		{
			name:  "draw first line only",
			fault: &Fault{Kind: RuntimeFault, Phase: PhaseDraw, Err: errors.New("bad\nmore")},
			want:  "draw error: bad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fault.Message(); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFaultMessageTruncated(t *testing.T) {
	long := strings.Repeat("é", 500)
	f := &Fault{Kind: RuntimeFault, Phase: PhaseUpdate, Err: errors.New(long)}

	msg := f.Message()
	if n := utf8.RuneCountInString(msg); n != MaxMessageRunes {
		t.Errorf("message runes = %d, want %d", n, MaxMessageRunes)
	}
	if !utf8.ValidString(msg) {
		t.Error("truncated message is not valid UTF-8")
	}
	if got := truncateRunes(msg, ShownMessageRunes); utf8.RuneCountInString(got) != ShownMessageRunes {
		t.Errorf("shown runes = %d, want %d", utf8.RuneCountInString(got), ShownMessageRunes)
	}
}

func TestFaultUnwrap(t *testing.T) {
	cause := errors.New("cause")
	tests := []struct {
		kind     FaultKind
		sentinel error
		fatal    bool
	}{
		{LoadError, ErrLoad, true},
		{ContractError, ErrContract, true},
		{RuntimeFault, ErrRuntime, true},
		{InputFault, ErrInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			f := &Fault{Kind: tt.kind, Phase: PhaseUpdate, Plugin: "demo", Err: cause}
			if !errors.Is(f, tt.sentinel) {
				t.Errorf("errors.Is(fault, %v) = false", tt.sentinel)
			}
			if !errors.Is(f, cause) {
				t.Error("errors.Is(fault, cause) = false")
			}
			if tt.kind.Fatal() != tt.fatal {
				t.Errorf("Fatal() = %v, want %v", tt.kind.Fatal(), tt.fatal)
			}
			if !strings.Contains(f.Error(), "demo") {
				t.Errorf("Error() = %q, want plugin name", f.Error())
			}
		})
	}
}

func TestKindNames(t *testing.T) {
	tests := []struct {
		kind                                  Kind
		str, class, inst, coll, label, paused string
	}{
		{KindGame, "game", "Game", "game", "games", "||", "PAUSED"},
		{KindApp, "app", "App", "app", "apps", "X", "MENU"},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			k := tt.kind
			got := []string{k.String(), k.ClassName(), k.InstanceName(), k.Collection(), k.OverlayLabel(), k.PausedTitle()}
			want := []string{tt.str, tt.class, tt.inst, tt.coll, tt.label, tt.paused}
			for i := range got {
				if got[i] != want[i] {
					t.Errorf("name %d = %q, want %q", i, got[i], want[i])
				}
			}
			parsed, err := ParseKind(tt.str)
			if err != nil || parsed != k {
				t.Errorf("ParseKind(%q) = %v, %v", tt.str, parsed, err)
			}
		})
	}
	if _, err := ParseKind("widget"); err == nil {
		t.Error("ParseKind(widget) succeeded")
	}
}
