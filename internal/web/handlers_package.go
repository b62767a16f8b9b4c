package web

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/wallyben/autoenroll-core/internal/archive"
	"github.com/wallyben/autoenroll-core/internal/core"
	"github.com/wallyben/autoenroll-core/internal/logging"
	"github.com/wallyben/autoenroll-core/internal/metrics"
	"github.com/wallyben/autoenroll-core/internal/model"
	"github.com/wallyben/autoenroll-core/internal/naersa"
	"github.com/wallyben/autoenroll-core/internal/worm"
)

type buildZipRequest struct {
	RunID     string                 `json:"runId"`
	Employees []model.EmployeeRecord `json:"employees"`
}

type buildZipResponse struct {
	Success     bool   `json:"success"`
	ZipPath     string `json:"zipPath"`
	RunID       string `json:"runId"`
	RecordCount int    `json:"recordCount"`
}

type submissionResponse struct {
	Success           bool   `json:"success"`
	ZipPath           string `json:"zipPath"`
	EmployerID        string `json:"employerId"`
	PeriodStart       string `json:"periodStart"`
	EmployeeCount     int    `json:"employeeCount"`
	ContributionCount int    `json:"contributionCount"`
}

// handleBuildZip writes the control archive for one payroll run.
func (s *Server) handleBuildZip(w http.ResponseWriter, r *http.Request) {
	var req buildZipRequest
	if err := decodeJSON(w, r, s.cfg.Import.MaxFileSize, &req); err != nil {
		respondError(w, r, err, bodyStatus(err))
		return
	}

	if req.RunID == "" {
		respondError(w, r, errNoRunID, http.StatusBadRequest)
		return
	}
	if len(req.Employees) == 0 {
		respondError(w, r, errNoEmployees, http.StatusBadRequest)
		return
	}
	if err := worm.CheckRunID(req.RunID); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	release, err := s.acquire(r, "run:"+worm.SanitizeRunID(req.RunID))
	if err != nil {
		respondError(w, r, err, packagingStatus(err))
		return
	}
	defer release()

	start := time.Now()
	path, err := s.runs.BuildZip(req.RunID, req.Employees)
	s.metrics.ObserveArchive(metrics.KindControl, start, err)
	if err != nil {
		respondError(w, r, err, packagingStatus(err))
		return
	}

	logging.WithFields(r.Context(), "run_id", req.RunID).Info("control archive written",
		"path", path,
		"records", len(req.Employees),
	)

	writeJSON(w, buildZipResponse{
		Success:     true,
		ZipPath:     path,
		RunID:       req.RunID,
		RecordCount: len(req.Employees),
	})
}

// handleSubmission packages a submission document and manifest. Validation
// runs unless the query carries validate=false.
func (s *Server) handleSubmission(w http.ResponseWriter, r *http.Request) {
	var sub model.Submission
	if err := decodeJSON(w, r, s.cfg.Import.MaxFileSize, &sub); err != nil {
		respondError(w, r, err, bodyStatus(err))
		return
	}

	dir, err := s.submissionsDir()
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	name := SubmissionArchiveName(sub.EmployerID, sub.PeriodStart)
	path, err := archive.EnsureWithin(dir, filepath.Join(dir, name))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	release, err := s.acquire(r, "submission:"+name)
	if err != nil {
		respondError(w, r, err, packagingStatus(err))
		return
	}
	defer release()

	start := time.Now()
	_, err = s.submissions.Package(&sub, naersa.Options{
		OutputPath: path,
		Validate:   r.URL.Query().Get("validate") != "false",
	})
	s.metrics.ObserveArchive(metrics.KindSubmission, start, err)
	if err != nil {
		respondError(w, r, err, packagingStatus(err))
		return
	}

	logging.WithFields(r.Context(), "employer_id", sub.EmployerID).Info("submission archive written",
		"path", path,
		"employees", len(sub.Employees),
		"contributions", len(sub.Contributions),
	)

	writeJSON(w, submissionResponse{
		Success:           true,
		ZipPath:           path,
		EmployerID:        sub.EmployerID,
		PeriodStart:       sub.PeriodStart,
		EmployeeCount:     len(sub.Employees),
		ContributionCount: len(sub.Contributions),
	})
}

// handlePackagingStatus reports packaging slot usage.
func (s *Server) handlePackagingStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.limiter.Status())
}

// SubmissionArchiveName returns NAERSA_SUBMISSION_<employer>_<periodStart>.zip
// with both parts reduced to file-name-safe characters.
func SubmissionArchiveName(employerID, periodStart string) string {
	return fmt.Sprintf("NAERSA_SUBMISSION_%s_%s.zip",
		worm.SanitizeRunID(employerID), worm.SanitizeRunID(periodStart))
}

// acquire takes a packaging slot for key and returns its release func.
func (s *Server) acquire(r *http.Request, key string) (func(), error) {
	if err := s.limiter.Acquire(r.Context(), key); err != nil {
		return nil, err
	}
	s.metrics.SetPackagingsActive(s.limiter.ActiveCount())
	return func() {
		s.limiter.Release(key)
		s.metrics.SetPackagingsActive(s.limiter.ActiveCount())
	}, nil
}

func (s *Server) submissionsDir() (string, error) {
	if s.cfg.Package.SubmissionsDir != "" {
		return s.cfg.Package.SubmissionsDir, nil
	}
	return worm.DefaultDir()
}

func bodyStatus(err error) int {
	if errors.Is(err, errFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// packagingStatus maps packaging failures to HTTP statuses.
func packagingStatus(err error) int {
	var verrs core.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrRunInProgress):
		return http.StatusConflict
	case errors.Is(err, core.ErrTooManyPackagings):
		return http.StatusServiceUnavailable
	case errors.Is(err, worm.ErrUnsafeRunID), errors.Is(err, archive.ErrPathEscape):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
