// This file turns request query values into the inputs of a projection:
// the resolved form values, display language, currency, rounding mode and
// the optional extra months.

package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"savings/internal/core"
	"savings/internal/currency"
	"savings/internal/i18n"
	"savings/internal/params"
	"savings/internal/services"
)

const (
	queryRounding = "rounding"
	queryMonths   = "months"
)

// projectionQuery is everything a handler needs to run and render one
// projection.
type projectionQuery struct {
	Form        params.Saved
	Lang        language.Tag
	PersistLang bool
	Currency    currency.Currency
	Mode        core.RoundingMode
	ExtraMonths int
}

// Inputs returns the parsed engine inputs.
func (q projectionQuery) Inputs() core.Inputs {
	in := q.Form.Inputs()
	in.Months = q.ExtraMonths
	return in
}

// Request builds the service request for clientID.
func (q projectionQuery) Request(clientID string) services.ProjectionRequest {
	return services.ProjectionRequest{
		Inputs:   q.Inputs(),
		Mode:     q.Mode,
		ClientID: clientID,
		Language: q.Lang.String(),
		Currency: q.Currency.String(),
	}
}

// parseProjectionQuery completes form (already resolved against the query
// and any stored copy) with the request-level settings. An empty rounding
// value selects fallback.
func parseProjectionQuery(r *http.Request, form params.Saved, fallback core.RoundingMode) (projectionQuery, error) {
	query := r.URL.Query()

	mode, err := parseRounding(query, fallback)
	if err != nil {
		return projectionQuery{}, err
	}

	months := core.ParseCount(query.Get(queryMonths))
	if months < 0 {
		months = 0
	}

	tag, persist := resolveLanguage(r, form)
	return projectionQuery{
		Form:        form,
		Lang:        tag,
		PersistLang: persist,
		Currency:    resolveCurrency(form, tag),
		Mode:        mode,
		ExtraMonths: months,
	}, nil
}

func parseRounding(query url.Values, fallback core.RoundingMode) (core.RoundingMode, error) {
	v := strings.TrimSpace(query.Get(queryRounding))
	if v == "" {
		return fallback, nil
	}
	mode, err := core.ParseRoundingMode(v)
	if err != nil {
		return "", fmt.Errorf("%w %q: must be 'precise' or 'rounded'", err, v)
	}
	return mode, nil
}

// resolveLanguage prefers the language carried by the form values (query,
// then stored copy). Otherwise the cookie and Accept-Language decide. The
// bool reports whether the choice should be written to the language cookie.
func resolveLanguage(r *http.Request, form params.Saved) (language.Tag, bool) {
	if form.Language != nil {
		if tag, ok := i18n.Parse(*form.Language); ok {
			_, inQuery := r.URL.Query()[params.KeyLanguage]
			return tag, inQuery
		}
	}
	tag, _ := i18n.Resolve(r)
	return tag, false
}

// resolveCurrency uses the saved currency when it is supported and the
// language's default otherwise.
func resolveCurrency(form params.Saved, tag language.Tag) currency.Currency {
	if form.Currency != nil {
		if c, err := currency.Parse(*form.Currency); err == nil {
			return c
		}
	}
	return i18n.CurrencyFor(tag)
}
