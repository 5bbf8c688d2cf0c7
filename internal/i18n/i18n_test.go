package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"golang.org/x/text/language"

	"savings/internal/currency"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		cookie      string
		accept      string
		wantTag     language.Tag
		wantPersist bool
	}{
		{"query wins", "/?lang=ja", "en", "en-US", language.Japanese, true},
		{"cookie beats header", "/", "ja", "en-US", language.Japanese, false},
		{"accept language", "/", "", "ja-JP,ja;q=0.9,en;q=0.8", language.Japanese, false},
		{"regional english", "/", "", "en-GB", language.English, false},
		{"unsupported falls back", "/", "", "fr-FR", language.English, false},
		{"invalid query ignored", "/?lang=@@", "", "ja", language.Japanese, false},
		{"nothing", "/", "", "", language.English, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LangCookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			tag, persist := Resolve(req)
			if tag != tt.wantTag {
				t.Errorf("tag = %v, want %v", tag, tt.wantTag)
			}
			if persist != tt.wantPersist {
				t.Errorf("persist = %v, want %v", persist, tt.wantPersist)
			}
		})
	}
}

func TestCurrencyFor(t *testing.T) {
	if got := CurrencyFor(language.Japanese); got != currency.JPY {
		t.Errorf("ja -> %s, want JPY", got)
	}
	if got := CurrencyFor(language.English); got != currency.USD {
		t.Errorf("en -> %s, want USD", got)
	}
}

func TestCatalogTranslations(t *testing.T) {
	cat, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := T(language.Japanese, "result.total"); got != "総額" {
		t.Errorf("ja result.total = %q", got)
	}
	if got := T(language.English, "result.total"); got != "Total" {
		t.Errorf("en result.total = %q", got)
	}
	if got := T(language.English, "form.annualRate"); got != "Expected annual return (%)" {
		t.Errorf("en form.annualRate = %q", got)
	}
	if got := T(language.English, "missing.key"); got != "missing.key" {
		t.Errorf("missing key = %q", got)
	}

	en, ja := cat.Keys("en"), cat.Keys("ja")
	if len(en) != len(ja) {
		t.Fatalf("catalogs differ in size: en=%d ja=%d", len(en), len(ja))
	}
	for i := range en {
		if en[i] != ja[i] {
			t.Fatalf("catalog key mismatch: %q vs %q", en[i], ja[i])
		}
	}
}

func TestLoadFromFSRejectsUnknownLocale(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.yaml": {Data: []byte("locale: en\nmessages:\n  a: b\n")},
		"locales/fr.yaml": {Data: []byte("locale: fr\nmessages:\n  a: b\n")},
	}
	if _, err := LoadFromFS(fsys); err == nil {
		t.Fatal("expected error for unsupported locale")
	}
}

func TestOptions(t *testing.T) {
	if _, err := Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	opts := Options(language.Japanese)
	if len(opts) != 2 {
		t.Fatalf("expected 2 options, got %d", len(opts))
	}
	if opts[0].Active || !opts[1].Active {
		t.Fatalf("unexpected active flags: %+v", opts)
	}
	if opts[1].Label != "日本語" {
		t.Fatalf("unexpected ja label %q", opts[1].Label)
	}
}
