package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"spendview/internal/core"
	"spendview/internal/export"
	applog "spendview/internal/log"
	"spendview/internal/source"
)

// ageReporter is implemented by snapshot-backed loaders that know when
// their data was last fetched.
type ageReporter interface {
	Age(ctx context.Context) (time.Duration, bool)
}

func (s *Server) snapshotAge(ctx context.Context) (time.Duration, bool) {
	ar, ok := s.loader.(ageReporter)
	if !ok {
		return 0, false
	}
	return ar.Age(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// Ready once the data source yields rows.
	if _, err := s.getReport(r.Context(), core.Filter{}); err != nil && !errors.Is(err, core.ErrEmptyDataset) {
		http.Error(w, "data source unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	if age, ok := s.snapshotAge(r.Context()); ok {
		fmt.Fprintf(w, "ready (snapshot age %s)", age.Round(time.Minute))
		return
	}
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	categories, err := s.categoryOptions(r.Context())
	if err != nil && !errors.Is(err, core.ErrEmptyDataset) {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Category options error", "error", err)
	}

	sourceName := ""
	if d, ok := s.loader.(source.Describer); ok {
		sourceName = d.Describe()
	}

	snapshotAge := ""
	if age, ok := s.snapshotAge(r.Context()); ok {
		snapshotAge = age.Round(time.Minute).String()
	}

	data := struct {
		Categories  []string
		Source      string
		SnapshotAge string
		CanRefresh  bool
		AuthEnabled bool
	}{
		Categories:  categories,
		Source:      sourceName,
		SnapshotAge: snapshotAge,
		CanRefresh:  s.publisher != nil,
		AuthEnabled: s.authEnabled,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleDashboard renders the report partial for the current filter.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	f, err := ParseFilter(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	report, err := s.getReport(r.Context(), f)
	if errors.Is(err, core.ErrEmptyDataset) {
		_, _ = w.Write([]byte(`<div class="placeholder">No expenses match the current filter.</div>`))
		return
	}
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Dashboard report error", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Error building report</div>`))
		return
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<div class="placeholder">Total spend: ` + core.FormatUSD(report.Summary.Total.Cents) + `</div>`))
		return
	}

	if err := s.templates.ExecuteTemplate(w, "dashboard.html", buildDashboardView(report)); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Dashboard template execution failed", "error", err, "template", "dashboard.html")
		_, _ = w.Write([]byte(`<div class="error">Error rendering report</div>`))
	}
}

// handleExport streams the current report as an XLSX workbook.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	f, err := ParseFilter(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := s.getReport(r.Context(), f)
	if errors.Is(err, core.ErrEmptyDataset) {
		http.Error(w, "no expenses match the current filter", http.StatusNotFound)
		return
	}
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Export report error", "error", err)
		http.Error(w, "error building report", http.StatusInternalServerError)
		return
	}

	data, err := export.ReportXLSX(report)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "XLSX export error", "error", err)
		http.Error(w, "error writing workbook", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("spendview-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(data)
}

// handleRefresh publishes a snapshot refresh request for the worker.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.publisher == nil {
		w.WriteHeader(http.StatusNotImplemented)
		_, _ = w.Write([]byte(`<div class="error">Refresh is not configured</div>`))
		return
	}

	requestedBy := "dashboard"
	if username, ok := authUser(r); ok {
		requestedBy = username
	}

	if err := s.publisher.PublishRefreshRequest(r.Context(), requestedBy, "manual refresh"); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Refresh publish error", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Could not request refresh</div>`))
		return
	}

	s.reportCache.Clear()
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte(`<div class="success">Refresh requested. New data will appear shortly.</div>`))
}
