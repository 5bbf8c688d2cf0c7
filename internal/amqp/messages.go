package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrInvalidEvent = errors.New("invalid projection event")

// ProjectionEvent records one computed projection for the analytics worker.
// It carries the resolved inputs and the headline result only; the monthly
// series can be recomputed from the inputs.
type ProjectionEvent struct {
	ClientID      string    `json:"client_id,omitempty"`
	InitialAmount float64   `json:"initial_amount"`
	MonthlyAmount float64   `json:"monthly_amount"`
	AnnualRate    float64   `json:"annual_rate"`
	TotalMonths   int       `json:"total_months"`
	FinalTotal    float64   `json:"final_total"`
	Language      string    `json:"lang,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewProjectionEvent(initial, monthly, rate float64, months int, finalTotal float64) *ProjectionEvent {
	return &ProjectionEvent{
		InitialAmount: initial,
		MonthlyAmount: monthly,
		AnnualRate:    rate,
		TotalMonths:   months,
		FinalTotal:    finalTotal,
		Timestamp:     time.Now().UTC(),
	}
}

// Validate rejects events the worker cannot store.
func (e *ProjectionEvent) Validate() error {
	if e.TotalMonths <= 0 {
		return fmt.Errorf("%w: total_months must be positive", ErrInvalidEvent)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrInvalidEvent)
	}
	return nil
}

func (e *ProjectionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ProjectionEventFromJSON(data []byte) (*ProjectionEvent, error) {
	var e ProjectionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
