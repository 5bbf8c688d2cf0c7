// Package params holds the saved form parameters of a visitor and the
// precedence rules used to restore them: querystring first, then the stored
// copy, then hard-coded defaults.
//
// Values are kept as the raw strings the user typed; parsing into numbers
// happens in core.ParseAmount when a projection is requested.
package params

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"savings/internal/core"
)

// Query/storage keys.
const (
	KeyInitialAmount = "initialAmount"
	KeyMonthlyAmount = "monthlyAmount"
	KeyAnnualRate    = "annualRate"
	KeyYears         = "years"
	KeyLanguage      = "lang"
	KeyCurrency      = "currency"
)

var (
	ErrNotFound       = errors.New("saved params not found")
	ErrInvalidPayload = errors.New("invalid saved params payload")
)

// Saved is the fixed-shape record persisted per visitor. Language and
// Currency are optional: records written before they existed lack them.
type Saved struct {
	InitialAmount string  `json:"initialAmount"`
	MonthlyAmount string  `json:"monthlyAmount"`
	AnnualRate    string  `json:"annualRate"`
	Years         string  `json:"years"`
	Language      *string `json:"lang,omitempty"`
	Currency      *string `json:"currency,omitempty"`
}

// Store persists Saved records keyed by an opaque client ID.
type Store interface {
	// Load returns ErrNotFound when nothing was saved for clientID.
	Load(ctx context.Context, clientID string) (Saved, error)
	Save(ctx context.Context, clientID string, s Saved) error
}

// Defaults returns the values used when neither the query nor the store
// provide one.
func Defaults() Saved {
	return Saved{
		InitialAmount: "0",
		MonthlyAmount: "10000",
		AnnualRate:    "3",
		Years:         "10",
	}
}

// Resolve merges the request query, the stored record (may be nil) and the
// defaults. A key present in the query wins even when its value is empty;
// a stored value only counts when non-empty.
func Resolve(query url.Values, stored *Saved) Saved {
	out := Defaults()
	if stored != nil {
		pick(&out.InitialAmount, stored.InitialAmount)
		pick(&out.MonthlyAmount, stored.MonthlyAmount)
		pick(&out.AnnualRate, stored.AnnualRate)
		pick(&out.Years, stored.Years)
		out.Language = nonEmpty(stored.Language)
		out.Currency = nonEmpty(stored.Currency)
	}

	if query != nil {
		fromQuery(query, KeyInitialAmount, &out.InitialAmount)
		fromQuery(query, KeyMonthlyAmount, &out.MonthlyAmount)
		fromQuery(query, KeyAnnualRate, &out.AnnualRate)
		fromQuery(query, KeyYears, &out.Years)
		if _, ok := query[KeyLanguage]; ok {
			out.Language = nonEmpty(ptr(strings.TrimSpace(query.Get(KeyLanguage))))
		}
		if _, ok := query[KeyCurrency]; ok {
			out.Currency = nonEmpty(ptr(strings.TrimSpace(query.Get(KeyCurrency))))
		}
	}
	return out
}

func pick(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func fromQuery(q url.Values, key string, dst *string) {
	if _, ok := q[key]; ok {
		*dst = strings.TrimSpace(q.Get(key))
	}
}

func ptr(s string) *string { return &s }

func nonEmpty(p *string) *string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

// Values encodes the record as query parameters.
func (s Saved) Values() url.Values {
	v := url.Values{}
	v.Set(KeyInitialAmount, s.InitialAmount)
	v.Set(KeyMonthlyAmount, s.MonthlyAmount)
	v.Set(KeyAnnualRate, s.AnnualRate)
	v.Set(KeyYears, s.Years)
	if s.Language != nil {
		v.Set(KeyLanguage, *s.Language)
	}
	if s.Currency != nil {
		v.Set(KeyCurrency, *s.Currency)
	}
	return v
}

// Query returns the shareable querystring for the record.
func (s Saved) Query() string {
	return s.Values().Encode()
}

// Inputs parses the stored strings, substituting zero for invalid text.
func (s Saved) Inputs() core.Inputs {
	return core.Inputs{
		InitialAmount: core.ParseAmount(s.InitialAmount),
		MonthlyAmount: core.ParseAmount(s.MonthlyAmount),
		AnnualRate:    core.ParseAmount(s.AnnualRate),
		Years:         core.ParseCount(s.Years),
	}
}

// LanguageOr returns the saved language or fallback.
func (s Saved) LanguageOr(fallback string) string {
	if s.Language == nil {
		return fallback
	}
	return *s.Language
}

// CurrencyOr returns the saved currency or fallback.
func (s Saved) CurrencyOr(fallback string) string {
	if s.Currency == nil {
		return fallback
	}
	return *s.Currency
}

// Marshal encodes the record for storage.
func Marshal(s Saved) ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal decodes a stored record. Fields missing from older payloads
// are left empty (or nil for the optional ones) and later filled in by
// Resolve.
func Unmarshal(data []byte) (Saved, error) {
	var s Saved
	if err := json.Unmarshal(data, &s); err != nil {
		return Saved{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	s.Language = nonEmpty(s.Language)
	s.Currency = nonEmpty(s.Currency)
	return s, nil
}
