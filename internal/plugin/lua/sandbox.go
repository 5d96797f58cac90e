package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// removedGlobals are base library entries that can load code from outside
// the plugin source or reach the host environment.
var removedGlobals = []string{
	"dofile",     // load and execute file
	"loadfile",   // load file as function
	"load",       // load chunk from function
	"loadstring", // load chunk from string
	"require",    // module loader
	"module",     // module definition
	"_printregs", // dumps VM registers to stdout
}

// Sandbox restricts a Lua state to pure computation plus the capability
// objects bound explicitly by the host.
type Sandbox struct {
	L *lua.LState

	print func(string)
}

// NewSandbox creates a sandbox for the Lua state. A nil print discards
// plugin output.
func NewSandbox(L *lua.LState, out func(string)) *Sandbox {
	return &Sandbox{L: L, print: out}
}

// Install removes unsafe globals and replaces print.
func (s *Sandbox) Install() {
	for _, name := range removedGlobals {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.installPrint()
}

// installPrint replaces print so plugin output goes to the host log
// instead of stdout, which the terminal display owns.
func (s *Sandbox) installPrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		if s.print != nil {
			s.print(strings.Join(parts, "\t"))
		}
		return 0
	}))
}

// Removed reports whether name is stripped from plugin globals.
func (s *Sandbox) Removed(name string) bool {
	for _, r := range removedGlobals {
		if r == name {
			return true
		}
	}
	return false
}
