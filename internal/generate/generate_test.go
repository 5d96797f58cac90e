package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/gamemaker/internal/plugin"
)

func TestExtractCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "single block",
			in:   "Here you go:\n```lua\nprint(1)\n```\nEnjoy!",
			want: "print(1)",
		},
		{
			name: "multiple blocks joined",
			in:   "```lua\na = 1\n```\ntext\n```lua\nb = 2\n```",
			want: "a = 1\n\nb = 2",
		},
		{
			name: "capitalized fence",
			in:   "```Lua\nx = 1\n```",
			want: "x = 1",
		},
		{
			name: "crlf line endings",
			in:   "```lua\r\nx = 1\r\n```\r\n",
			want: "x = 1",
		},
		{
			name: "no fence returns trimmed text",
			in:   "  function update() end \n",
			want: "function update() end",
		},
		{
			name: "unterminated fence falls back to raw text",
			in:   "```lua\nx = 1",
			want: "```lua\nx = 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractCode(tt.in); got != tt.want {
				t.Errorf("ExtractCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" space, 1. neon ,, \"pixel\", 2048 ,boss\n", ",")
	want := []string{"space", "neon", "pixel", "2048", "boss"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("splitList() = %q, want %q", got, want)
	}
}

func recording(reply string, err error) (*[]Request, Completer) {
	var reqs []Request
	return &reqs, CompleterFunc(func(_ context.Context, req Request) (string, error) {
		reqs = append(reqs, req)
		return reply, err
	})
}

func TestGenerate(t *testing.T) {
	reqs, c := recording("```lua\nGame = {}\n```", nil)
	g := New(c, Options{CodeTokens: 1234})

	src, err := g.Generate(context.Background(), plugin.KindGame, "space cats")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if src != "Game = {}" {
		t.Errorf("Generate() = %q", src)
	}

	req := (*reqs)[0]
	if req.Task != TaskCode || req.Kind != plugin.KindGame || req.MaxTokens != 1234 {
		t.Errorf("request = %+v", req)
	}
	for _, want := range []string{"space cats", "Game.new", "r:fill(color)", "```lua"} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("prompt does not contain %q", want)
		}
	}
}

func TestGenerateAppPrompt(t *testing.T) {
	reqs, c := recording("App = {}", nil)
	g := New(c, Options{})

	if _, err := g.Generate(context.Background(), plugin.KindApp, "a tip calculator"); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	prompt := (*reqs)[0].Prompt
	if !strings.Contains(prompt, "App.new") || !strings.Contains(prompt, "a tip calculator") {
		t.Errorf("app prompt missing contract or description")
	}
	if (*reqs)[0].MaxTokens != DefaultOptions().CodeTokens {
		t.Errorf("MaxTokens = %d, want default", (*reqs)[0].MaxTokens)
	}
}

func TestGenerateErrors(t *testing.T) {
	boom := errors.New("rate limited")
	tests := []struct {
		name  string
		reply string
		err   error
		want  error
	}{
		{"completer error", "", boom, boom},
		{"empty reply", "   ", nil, ErrNoCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := recording(tt.reply, tt.err)
			_, err := New(c, Options{}).Generate(context.Background(), plugin.KindGame, "x")
			if !errors.Is(err, tt.want) {
				t.Errorf("Generate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSuggestGame(t *testing.T) {
	reqs, c := recording("space, neon, pixel", nil)
	g := New(c, Options{SuggestTokens: 50})

	words, err := g.Suggest(context.Background(), plugin.KindGame, "a game about")
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if len(words) != GameSuggestions {
		t.Fatalf("Suggest() returned %d words, want %d", len(words), GameSuggestions)
	}
	if words[0] != "space" || words[3] != "adventure" {
		t.Errorf("Suggest() = %v, want model words then fallbacks", words)
	}
	req := (*reqs)[0]
	if req.Task != TaskSuggest || req.MaxTokens != 50 || !strings.Contains(req.Prompt, "a game about") {
		t.Errorf("request = %+v", req)
	}
}

func TestSuggestTruncates(t *testing.T) {
	_, c := recording("a,b,c,d,e,f,g,h,i,j,k,l", nil)
	words, _ := New(c, Options{}).Suggest(context.Background(), plugin.KindGame, "")
	if len(words) != GameSuggestions || words[9] != "j" {
		t.Errorf("Suggest() = %v", words)
	}
}

func TestSuggestApp(t *testing.T) {
	reqs, c := recording("Calculator|Timer|Notes", nil)
	g := New(c, Options{})

	types, err := g.Suggest(context.Background(), plugin.KindApp, "")
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if len(types) != AppSuggestions || types[0] != "Calculator" {
		t.Errorf("types = %v", types)
	}
	if !strings.Contains((*reqs)[0].Prompt, "TYPES") {
		t.Error("empty description did not ask for types")
	}

	if _, err := g.Suggest(context.Background(), plugin.KindApp, "Timer"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains((*reqs)[1].Prompt, "FEATURES") || !strings.Contains((*reqs)[1].Prompt, "Timer") {
		t.Error("description did not ask for features")
	}
}

func TestSuggestFallbacks(t *testing.T) {
	_, c := recording("", errors.New("network down"))
	g := New(c, Options{})
	ctx := context.Background()

	words, err := g.Suggest(ctx, plugin.KindGame, "x")
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if strings.Join(words, ",") != strings.Join(fallbackGameWords, ",") {
		t.Errorf("game fallback = %v", words)
	}

	first, _ := g.Suggest(ctx, plugin.KindApp, "")
	second, _ := g.Suggest(ctx, plugin.KindApp, "")
	if first[0] == second[0] {
		t.Errorf("app type fallbacks did not rotate: %v then %v", first, second)
	}

	features, _ := g.Suggest(ctx, plugin.KindApp, "Stopwatch with big digits")
	if features[0] != "laps" {
		t.Errorf("stopwatch features = %v", features)
	}
	generic, _ := g.Suggest(ctx, plugin.KindApp, "Something else")
	if generic[0] != defaultFeatures[0] {
		t.Errorf("default features = %v", generic)
	}

	words[0] = "mutated"
	if fallbackGameWords[0] == "mutated" {
		t.Error("fallback list shared with caller")
	}
}

func TestSuggestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := CompleterFunc(func(ctx context.Context, _ Request) (string, error) { return "", ctx.Err() })

	if _, err := New(c, Options{}).Suggest(ctx, plugin.KindGame, ""); !errors.Is(err, context.Canceled) {
		t.Errorf("Suggest() error = %v, want context.Canceled", err)
	}
}

func TestStatic(t *testing.T) {
	g := New(NewStatic(), Options{})
	ctx := context.Background()

	game, err := g.Generate(ctx, plugin.KindGame, "anything")
	if err != nil || game != DemoSource(plugin.KindGame) {
		t.Errorf("Generate(game) = %q, %v", game, err)
	}
	if !strings.Contains(game, "Game.new") {
		t.Error("demo game lacks constructor")
	}
	app, err := g.Generate(ctx, plugin.KindApp, "anything")
	if err != nil || !strings.Contains(app, "App.new") {
		t.Errorf("Generate(app) = %q, %v", app, err)
	}

	words, err := g.Suggest(ctx, plugin.KindGame, "")
	if err != nil || len(words) != GameSuggestions {
		t.Errorf("Suggest() = %v, %v", words, err)
	}
}

func TestNewCompleter(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		cfg     ProviderConfig
		wantErr error
	}{
		{"default static", ProviderConfig{}, nil},
		{"static", ProviderConfig{Provider: "STATIC"}, nil},
		{"anthropic", ProviderConfig{Provider: "anthropic", APIKey: "k"}, nil},
		{"openai", ProviderConfig{Provider: "openai", APIKey: "k", Model: "gpt-x"}, nil},
		{"missing key", ProviderConfig{Provider: "anthropic"}, ErrMissingAPIKey},
		{"unknown", ProviderConfig{Provider: "llama", APIKey: "k"}, ErrUnknownProvider},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCompleter(ctx, tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewCompleter() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || c == nil {
				t.Fatalf("NewCompleter() = %v, %v", c, err)
			}
		})
	}

	c, _ := NewCompleter(ctx, ProviderConfig{Provider: "anthropic", APIKey: "k"})
	if a, ok := c.(*Anthropic); !ok || a.Model() != DefaultAnthropicModel {
		t.Errorf("anthropic completer = %#v", c)
	}
	c, _ = NewCompleter(ctx, ProviderConfig{Provider: "openai", APIKey: "k", Model: "gpt-x"})
	if o, ok := c.(*OpenAI); !ok || o.Model() != "gpt-x" {
		t.Errorf("openai completer = %#v", c)
	}
}
