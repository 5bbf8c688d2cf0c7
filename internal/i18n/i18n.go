// Package i18n resolves the display language of a request and provides the
// translated UI messages.
package i18n

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"

	"savings/internal/currency"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "savings_lang"
)

var (
	supported = []language.Tag{language.English, language.Japanese}
	matcher   = language.NewMatcher(supported)
)

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Tag    string
	Label  string
	Active bool
}

// Supported returns the supported language tags, default first.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// Default returns the fallback language.
func Default() language.Tag {
	return language.English
}

// Parse maps a user supplied value ("ja", "ja-JP", "en_US") onto a
// supported tag.
func Parse(value string) (language.Tag, bool) {
	value = strings.TrimSpace(strings.ReplaceAll(value, "_", "-"))
	if value == "" {
		return Default(), false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return Default(), false
	}
	return match(tag)
}

func parseSupported(locale string) (language.Tag, bool) {
	for _, t := range supported {
		if t.String() == locale {
			return t, true
		}
	}
	return language.Und, false
}

func match(tags ...language.Tag) (language.Tag, bool) {
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default(), false
	}
	return supported[idx], true
}

// Resolve determines the language for a request: the lang query parameter,
// then the preference cookie, then Accept-Language, then the default.
// The bool reports whether the choice came from the query and should be
// persisted as a cookie.
func Resolve(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return Default(), false
	}

	if v := strings.TrimSpace(r.URL.Query().Get(LangParam)); v != "" {
		if tag, ok := Parse(v); ok {
			return tag, true
		}
	}

	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := Parse(cookie.Value); ok {
			return tag, false
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			if tag, ok := match(tags...); ok {
				return tag, false
			}
		}
	}

	return Default(), false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// CurrencyFor returns the default currency for a language.
func CurrencyFor(tag language.Tag) currency.Currency {
	if base, _ := tag.Base(); base.String() == "ja" {
		return currency.JPY
	}
	return currency.USD
}

// Options builds the language switcher entries with the active one marked.
func Options(active language.Tag) []LanguageOption {
	out := make([]LanguageOption, 0, len(supported))
	for _, tag := range supported {
		out = append(out, LanguageOption{
			Tag:    tag.String(),
			Label:  T(tag, "language."+tag.String()),
			Active: tag == active,
		})
	}
	return out
}
