package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/lead-scanner/internal/entity"
	"github.com/octobees/lead-scanner/internal/service"
)

type instantRunner struct {
	summary service.ScanSummary
	err     error
}

func (r *instantRunner) Scan(ctx context.Context, industries []string, progress service.ScanProgress) (service.ScanSummary, error) {
	return r.summary, r.err
}

type stubWriter struct {
	path string
}

func (w *stubWriter) Write(service.ScanSummary) (string, error) { return w.path, nil }

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func waitForJob(t *testing.T, jobs *service.JobManager, jobID string, want entity.JobStatus) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snapshot, err := jobs.Status(jobID)
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if snapshot.Status == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s never reached status %s", jobID, want)
}

func startedJobID(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := rec.Body.String()
	idx := strings.Index(body, `"job_id":"`)
	if idx < 0 {
		t.Fatalf("response missing job id: %s", body)
	}
	rest := body[idx+len(`"job_id":"`):]
	end := strings.IndexByte(rest, '"')
	return rest[:end]
}

func TestScanStartAccepted(t *testing.T) {
	jobs := service.NewJobManager(&instantRunner{}, &stubWriter{path: "out/leads.csv"}, nil)
	h := NewScanHandler(jobs, nil)

	e := echo.New()
	c, rec := newJSONContext(e, http.MethodPost, "/scan", `{"industries":["piekarnie"," fryzjerzy "]}`)
	if err := h.Start(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"job_id"`) {
		t.Fatalf("expected job id in response, got %s", rec.Body.String())
	}
}

func TestScanStartFallsBackToDefaults(t *testing.T) {
	jobs := service.NewJobManager(&instantRunner{}, &stubWriter{}, nil)
	h := NewScanHandler(jobs, []string{"piekarnie"})

	e := echo.New()
	c, rec := newJSONContext(e, http.MethodPost, "/scan", "")
	if err := h.Start(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202 with default industries, got %d", rec.Code)
	}
}

func TestScanStartRejectsEmptyIndustries(t *testing.T) {
	jobs := service.NewJobManager(&instantRunner{}, &stubWriter{}, nil)
	h := NewScanHandler(jobs, nil)

	e := echo.New()
	c, rec := newJSONContext(e, http.MethodPost, "/scan", `{"industries":["  "]}`)
	if err := h.Start(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestScanStatusNotFound(t *testing.T) {
	jobs := service.NewJobManager(&instantRunner{}, &stubWriter{}, nil)
	h := NewScanHandler(jobs, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/scan/nope", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("job_id")
	c.SetParamValues("nope")

	if err := h.Status(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestScanResultsAfterCompletion(t *testing.T) {
	runner := &instantRunner{summary: service.ScanSummary{
		Businesses: []entity.Business{{Name: "Piekarnia Nowak", Phone: "512345678"}},
		TotalFound: 1,
	}}
	jobs := service.NewJobManager(runner, &stubWriter{path: "out/leads.csv"}, nil)
	h := NewScanHandler(jobs, []string{"piekarnie"})

	e := echo.New()
	c, rec := newJSONContext(e, http.MethodPost, "/scan", "")
	if err := h.Start(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	jobID := startedJobID(t, rec)
	waitForJob(t, jobs, jobID, entity.JobCompleted)

	req := httptest.NewRequest(http.MethodGet, "/scan/"+jobID+"/results", nil)
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(req, rec2)
	c2.SetParamNames("job_id")
	c2.SetParamValues(jobID)

	if err := h.Results(c2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec2.Code)
	}
	if !strings.Contains(rec2.Body.String(), "Piekarnia Nowak") {
		t.Fatalf("expected business in results, got %s", rec2.Body.String())
	}
}

func TestScanDownloadWithoutOutputFile(t *testing.T) {
	jobs := service.NewJobManager(&instantRunner{}, &stubWriter{path: ""}, nil)
	h := NewScanHandler(jobs, []string{"piekarnie"})

	e := echo.New()
	c, rec := newJSONContext(e, http.MethodPost, "/scan", "")
	if err := h.Start(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	jobID := startedJobID(t, rec)
	waitForJob(t, jobs, jobID, entity.JobCompleted)

	req := httptest.NewRequest(http.MethodGet, "/scan/"+jobID+"/download", nil)
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(req, rec2)
	c2.SetParamNames("job_id")
	c2.SetParamValues(jobID)

	if err := h.Download(c2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec2.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec2.Code)
	}
}

func TestScanCancelUnknownJob(t *testing.T) {
	jobs := service.NewJobManager(&instantRunner{}, &stubWriter{}, nil)
	h := NewScanHandler(jobs, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/scan/nope", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("job_id")
	c.SetParamValues("nope")

	if err := h.Cancel(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
