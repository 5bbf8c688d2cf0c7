package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"savings/internal/i18n"
	"savings/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).String(),
	})
}

// handleReady reports whether templates are loaded and the params store
// answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.ready != nil {
		if err := s.ready(ctx); err != nil {
			checks["params_store"] = fmt.Sprintf("failed: %v", err)
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["params_store"] = "ok"
		}
	} else {
		checks["params_store"] = "in_memory"
	}

	stats := s.projections.CacheStats()
	checks["cache"] = map[string]any{
		"entries":   stats.Size,
		"hit_ratio": stats.HitRatio(),
		"status":    "ok",
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	traceMetrics := s.trace.GetMetrics()
	rateLimitMetrics := s.limiter.GetMetrics()
	cacheStats := s.projections.CacheStats()
	projections := s.projectionCount.Load()
	uptime := time.Since(s.startedAt)

	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", traceMetrics.TotalRequests)

	fmt.Fprintf(w, "# HELP projections_total Total number of projections computed\n")
	fmt.Fprintf(w, "# TYPE projections_total counter\n")
	fmt.Fprintf(w, "projections_total %d\n\n", projections)

	fmt.Fprintf(w, "# HELP cache_hits_total Total cache hits\n")
	fmt.Fprintf(w, "# TYPE cache_hits_total counter\n")
	fmt.Fprintf(w, "cache_hits_total %d\n\n", cacheStats.Hits)

	fmt.Fprintf(w, "# HELP cache_misses_total Total cache misses\n")
	fmt.Fprintf(w, "# TYPE cache_misses_total counter\n")
	fmt.Fprintf(w, "cache_misses_total %d\n\n", cacheStats.Misses)

	fmt.Fprintf(w, "# HELP cache_entries Current cache entries\n")
	fmt.Fprintf(w, "# TYPE cache_entries gauge\n")
	fmt.Fprintf(w, "cache_entries %d\n\n", cacheStats.Size)

	fmt.Fprintf(w, "# HELP rate_limit_rejections_total Total requests rejected by the rate limiter\n")
	fmt.Fprintf(w, "# TYPE rate_limit_rejections_total counter\n")
	fmt.Fprintf(w, "rate_limit_rejections_total %d\n\n", rateLimitMetrics.Rejected)

	fmt.Fprintf(w, "# HELP suspicious_requests_total Total suspicious requests detected\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n\n", s.detector.SuspiciousCount())

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n\n", uptime.Seconds())
}

// handleIndex renders the full page. Form values are restored from the
// query or the visitor's saved copy and saved again after rendering.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderProjection(w, r, "index.html", false)
}

// handleProjectionPartial renders only the results section for HTMX and
// pushes the shareable URL into the address bar.
func (s *Server) handleProjectionPartial(w http.ResponseWriter, r *http.Request) {
	s.renderProjection(w, r, "results", true)
}

func (s *Server) renderProjection(w http.ResponseWriter, r *http.Request, name string, partial bool) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	if s.templates == nil {
		logger.ErrorContext(ctx, "Templates not loaded",
			log.FieldPath, r.URL.Path,
			log.FieldComponent, log.ComponentTemplate)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	id := clientID(w, r)
	form := s.params.Load(ctx, id, r.URL.Query())

	q, err := parseProjectionQuery(r, form, s.projections.Mode())
	if err != nil {
		logger.WarnContext(ctx, "Invalid projection request", log.FieldError, err.Error())
		BadRequestError(err.Error()).Write(w)
		return
	}

	res := s.projections.Project(ctx, q.Request(id))
	s.projectionCount.Add(1)
	s.params.Save(ctx, id, q.Form)

	if q.PersistLang {
		i18n.SetLanguageCookie(w, q.Lang)
	}

	b := NewHTMXResponse()
	if partial {
		b.PushURL(shareURL(q.Form)).TriggerProjectionUpdated(res.Params.TotalMonths, res.Ready)
		if res.Clamped {
			b.TriggerNotification(NotificationWarning, i18n.Printer(q.Lang).Sprintf("result.clamped", res.Params.TotalMonths))
		}
	}
	if err := b.Template(s.templates, name, newPageView(q, res)); err != nil {
		logger.ErrorContext(ctx, "Template execution failed", log.FieldError, err.Error(), "template", name)
	}
	b.Write(w)
}
