package generate

import "strings"

var fallbackGameWords = []string{
	"adventure", "platform", "racing", "puzzle", "arcade",
	"shooter", "strategy", "sports", "simulator", "retro",
}

var fallbackAppTypePools = [][]string{
	{"Calculator", "Stopwatch", "Timer", "Task list", "Quick notes"},
	{"Unit converter", "World clock", "Calendar", "Alarm", "Counter"},
	{"Virtual dice", "Compass", "Flashlight", "Bubble level", "Lucky wheel"},
	{"Guided breathing", "Water counter", "Pomodoro", "Daily habits", "Meditation"},
	{"Drawing board", "Color generator", "Rhythm pattern", "Simple piano", "Pixel art"},
}

var fallbackFeatures = map[string][]string{
	"calculator":     {"scientific mode", "calculation history", "memory M+/M-", "color themes", "big keys"},
	"stopwatch":      {"laps", "countdown", "alarm sound", "saved times", "large display"},
	"timer":          {"quick presets", "audible alarm", "multiple timers", "kitchen mode", "final flash"},
	"task list":      {"mark as done", "priorities", "due dates", "categories", "archive tasks"},
	"quick notes":    {"save notes", "search text", "note colors", "sort by date", "pin a note"},
	"unit converter": {"length/weight/temp", "currencies", "favorites", "history", "offline mode"},
	"world clock":    {"multiple zones", "time difference", "favorite cities", "12/24h format", "alarms"},
}

var defaultFeatures = []string{"simple interface", "dark mode", "keeps its data", "smooth animations", "reset button"}

// featuresFor returns fallback features for the app type description
// starts with.
func featuresFor(description string) []string {
	d := strings.ToLower(description)
	for typ, features := range fallbackFeatures {
		if strings.HasPrefix(d, typ) {
			return features
		}
	}
	return defaultFeatures
}
