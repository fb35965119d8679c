package translation

import (
	"github.com/leonelquinteros/gotext"
)

// GetLanguage returns the active locale, defaulting to English.
func GetLanguage() string {
	lang := gotext.GetLanguage()

	if lang == "und" || lang == "" {
		return "en"
	}
	return lang
}

// Translate resolves a message id in the active locale.
func Translate(msgID string, vars ...interface{}) string {
	return gotext.Get(msgID, vars...)
}
