package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldClientID   = "client_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldInitialAmount = "initial_amount"
	FieldMonthlyAmount = "monthly_amount"
	FieldAnnualRate    = "annual_rate"
	FieldTotalMonths   = "total_months"
	FieldRoundingMode  = "rounding_mode"
	FieldLanguage      = "lang"
	FieldCurrency      = "currency"
	FieldCacheHit      = "cache_hit"
)

// Components
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentProjection = "projection"
	ComponentParams     = "params"
	ComponentStorage    = "storage"
	ComponentAMQP       = "amqp"
	ComponentWorker     = "worker"
	ComponentCache      = "cache"
	ComponentSecurity   = "security"
	ComponentRateLimit  = "rate_limit"
	ComponentBackend    = "backend"
	ComponentCLI        = "cli"
	ComponentTemplate   = "template"
)

// Operations
const (
	OpProject  = "project"
	OpLoad     = "load"
	OpSave     = "save"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpRender   = "render"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// Fields is an ordered builder for slog key/value pairs.
type Fields []any

func NewFields() Fields {
	return Fields{}
}

func (f Fields) With(key string, value any) Fields {
	return append(f, key, value)
}

func (f Fields) WithError(err error) Fields {
	if err == nil {
		return f
	}
	return append(f, FieldError, err.Error())
}

func (f Fields) WithOperation(op string) Fields {
	return append(f, FieldOperation, op)
}

// WithProjection adds the inputs of a projection.
func (f Fields) WithProjection(initial, monthly, rate float64, months int, mode string) Fields {
	return append(f,
		FieldInitialAmount, initial,
		FieldMonthlyAmount, monthly,
		FieldAnnualRate, rate,
		FieldTotalMonths, months,
		FieldRoundingMode, mode,
	)
}

func (f Fields) WithHTTPRequest(method, path, query, userAgent string) Fields {
	return append(f,
		FieldMethod, method,
		FieldPath, path,
		FieldQuery, query,
		FieldUserAgent, userAgent,
	)
}
