package http

import (
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"savings/internal/core"
	"savings/internal/currency"
	"savings/internal/i18n"
	"savings/internal/params"
	"savings/internal/services"
)

// ClientCookieName identifies a browser so its form values can be restored.
const ClientCookieName = "savings_client"

// clientID returns the visitor's ID, issuing a new cookie when the request
// carries none or a malformed one.
func clientID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(ClientCookieName); err == nil {
		if id, err := uuid.Parse(strings.TrimSpace(c.Value)); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     ClientCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

type languageLink struct {
	Tag    string
	Label  string
	URL    string
	Active bool
}

type currencyOption struct {
	Code   string
	Symbol string
	Active bool
}

type finalView struct {
	Principal string
	Interest  string
	Total     string
}

type chartRow struct {
	Year         int
	PrincipalPct float64
	InterestPct  float64
	TotalLabel   string
	ShortLabel   string
}

type tableRow struct {
	Year      int
	Principal string
	Interest  string
	Total     string
}

// pageView feeds index.html and the "results" fragment.
type pageView struct {
	tag language.Tag

	Lang       string
	Languages  []languageLink
	Currencies []currencyOption
	Form       params.Saved
	Ready      bool
	Clamped    bool
	Final      finalView
	Chart      []chartRow
	Table      []tableRow
	ShareURL   string
}

// T translates key into the page language.
func (v pageView) T(key string) string {
	return i18n.T(v.tag, key)
}

func newPageView(q projectionQuery, res services.Result) pageView {
	v := pageView{
		tag:        q.Lang,
		Lang:       q.Lang.String(),
		Languages:  languageLinks(q.Form, q.Lang),
		Currencies: currencyOptions(q.Currency),
		Form:       q.Form,
		Ready:      res.Ready,
		Clamped:    res.Clamped,
		ShareURL:   shareURL(q.Form),
	}
	if !res.Ready || !res.HasFinal {
		v.Ready = false
		return v
	}

	money := func(amount float64) string { return currency.Format(amount, q.Currency, q.Lang) }
	v.Final = finalView{
		Principal: money(res.Final.Principal),
		Interest:  money(res.Final.Interest),
		Total:     money(res.Final.Total),
	}
	v.Chart = chartRows(res.Yearly, q.Currency, q.Lang)
	v.Table = make([]tableRow, 0, len(res.Yearly))
	for _, b := range res.Yearly {
		v.Table = append(v.Table, tableRow{
			Year:      b.Year,
			Principal: money(b.Principal),
			Interest:  money(b.Interest),
			Total:     money(b.Total),
		})
	}
	return v
}

// chartRows scales every year against the largest total. Negative parts
// are drawn as empty segments.
func chartRows(yearly []core.YearBucket, c currency.Currency, tag language.Tag) []chartRow {
	maxTotal := 0.0
	for _, b := range yearly {
		if t := positive(b.Total); t > maxTotal {
			maxTotal = t
		}
	}

	rows := make([]chartRow, 0, len(yearly))
	for _, b := range yearly {
		row := chartRow{
			Year:       b.Year,
			TotalLabel: currency.Format(b.Total, c, tag),
			ShortLabel: currency.FormatShort(b.Total, c),
		}
		if maxTotal > 0 {
			row.PrincipalPct = positive(b.Principal) / maxTotal * 100
			row.InterestPct = positive(b.Interest) / maxTotal * 100
		}
		rows = append(rows, row)
	}
	return rows
}

func positive(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func languageLinks(form params.Saved, active language.Tag) []languageLink {
	opts := i18n.Options(active)
	links := make([]languageLink, 0, len(opts))
	for _, o := range opts {
		f := form
		lang := o.Tag
		f.Language = &lang
		links = append(links, languageLink{
			Tag:    o.Tag,
			Label:  o.Label,
			URL:    shareURL(f),
			Active: o.Active,
		})
	}
	return links
}

func currencyOptions(active currency.Currency) []currencyOption {
	out := make([]currencyOption, 0, len(currency.Supported()))
	for _, c := range currency.Supported() {
		out = append(out, currencyOption{
			Code:   c.String(),
			Symbol: c.Symbol(),
			Active: c == active,
		})
	}
	return out
}

func shareURL(form params.Saved) string {
	return "/?" + form.Query()
}
