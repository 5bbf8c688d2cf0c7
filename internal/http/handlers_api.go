package http

import (
	"bytes"
	"encoding/json"
	"net/http"

	"savings/internal/core"
	"savings/internal/currency"
	"savings/internal/log"
	"savings/internal/params"
)

// projectionResponse is the JSON body of GET /api/projection.
type projectionResponse struct {
	Params    core.Params       `json:"params"`
	Input     params.Saved      `json:"input"`
	Ready     bool              `json:"ready"`
	Rounding  core.RoundingMode `json:"rounding"`
	Clamped   bool              `json:"clamped,omitempty"`
	Monthly   []core.Snapshot   `json:"monthly"`
	Yearly    []core.YearBucket `json:"yearly"`
	Final     *core.Snapshot    `json:"final"`
	Formatted *formattedFinal   `json:"formatted,omitempty"`
	Currency  string            `json:"currency"`
	Lang      string            `json:"lang"`
}

type formattedFinal struct {
	Principal string `json:"principal"`
	Interest  string `json:"interest"`
	Total     string `json:"total"`
}

// handleProjectionAPI computes a projection from the query alone. Nothing
// is restored or saved, so the same URL always yields the same body.
func (s *Server) handleProjectionAPI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	form := params.Resolve(r.URL.Query(), nil)
	q, err := parseProjectionQuery(r, form, s.projections.Mode())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	res := s.projections.Project(ctx, q.Request(""))
	s.projectionCount.Add(1)

	body := projectionResponse{
		Params:   res.Params,
		Input:    q.Form,
		Ready:    res.Ready,
		Rounding: res.Mode,
		Clamped:  res.Clamped,
		Monthly:  res.Monthly,
		Yearly:   res.Yearly,
		Currency: q.Currency.String(),
		Lang:     q.Lang.String(),
	}
	if res.HasFinal {
		final := res.Final
		body.Final = &final
		body.Formatted = &formattedFinal{
			Principal: currency.Format(final.Principal, q.Currency, q.Lang),
			Interest:  currency.Format(final.Interest, q.Currency, q.Lang),
			Total:     currency.Format(final.Total, q.Currency, q.Lang),
		}
	}

	logger.DebugContext(ctx, "Projection computed",
		log.NewFields().
			WithProjection(res.Params.InitialAmount, res.Params.MonthlyAmount, res.Params.AnnualRatePercent, res.Params.TotalMonths, res.Mode.String()).
			With(log.FieldCurrency, body.Currency).
			With(log.FieldLanguage, body.Lang)...)

	writeJSON(w, http.StatusOK, body)
}

// writeJSON encodes v before touching the response so encoding failures,
// such as overflowing amounts, still produce a well-formed error.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		status = http.StatusUnprocessableEntity
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(map[string]string{"error": "projection cannot be encoded: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
