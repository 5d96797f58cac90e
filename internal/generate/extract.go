package generate

import "strings"

var (
	fenceOpeners = []string{"```lua\n", "```Lua\n", "```LUA\n"}
	fenceCloser  = "\n```"
)

// ExtractCode returns the contents of every fenced Lua block in text,
// joined by blank lines. Text without such a block is returned trimmed.
func ExtractCode(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var blocks []string
	for _, opener := range fenceOpeners {
		parts := strings.Split(text, opener)
		for _, part := range parts[1:] {
			if code, _, ok := strings.Cut(part, fenceCloser); ok {
				blocks = append(blocks, code)
			}
		}
	}
	if len(blocks) == 0 {
		return strings.TrimSpace(text)
	}
	return strings.Join(blocks, "\n\n")
}

// splitList splits a model reply on sep, trims the items and drops empty
// ones and list numbering.
func splitList(reply, sep string) []string {
	var out []string
	for _, item := range strings.Split(reply, sep) {
		item = strings.Trim(stripNumbering(strings.TrimSpace(item)), "\"'`* ")
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// stripNumbering removes a leading "1." or "2)" list marker.
func stripNumbering(item string) string {
	i := 0
	for i < len(item) && item[i] >= '0' && item[i] <= '9' {
		i++
	}
	if i > 0 && i < len(item) && (item[i] == '.' || item[i] == ')') {
		return strings.TrimSpace(item[i+1:])
	}
	return item
}
