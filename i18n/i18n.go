// Package i18n holds the bot's localized strings and language helpers.
package i18n

import "strings"

const (
	RU = "ru"
	LV = "lv"
	EN = "en"

	Default = RU
)

// Languages lists the supported codes in the order they are offered.
var Languages = []string{RU, LV, EN}

// Supported reports whether lang has a string table.
func Supported(lang string) bool {
	_, ok := messages[lang]
	return ok
}

// Normalize maps unknown codes to Default.
func Normalize(lang string) string {
	if Supported(lang) {
		return lang
	}
	return Default
}

// PickDefault guesses a language from a Telegram language_code.
func PickDefault(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	switch {
	case code == "":
		return Default
	case strings.HasPrefix(code, "ru"):
		return RU
	case strings.HasPrefix(code, "lv"), strings.HasPrefix(code, "lt"):
		return LV
	}
	return EN
}

// T returns the string for key in lang, falling back to Default.
// args are name/value pairs substituted into {name} placeholders.
func T(lang, key string, args ...string) string {
	table, ok := messages[lang]
	if !ok {
		table = messages[Default]
	}
	text, ok := table[key]
	if !ok {
		text = messages[Default][key]
	}
	if len(args) < 2 {
		return text
	}
	pairs := make([]string, 0, len(args))
	for i := 0; i+1 < len(args); i += 2 {
		pairs = append(pairs, "{"+args[i]+"}", args[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// IsAny reports whether text equals key's string in any language. Reply
// keyboard buttons come back as plain text, so this is how they are
// recognised.
func IsAny(text, key string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	for _, lang := range Languages {
		if messages[lang][key] == text {
			return true
		}
	}
	return false
}
