package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/wallyben/autoenroll-core/internal/core"
	"github.com/wallyben/autoenroll-core/internal/logging"
)

// handleImport maps an uploaded vendor export into employee records.
//
// Form fields: file (required), source (required), encoding (optional,
// overrides IMPORT_ENCODING). Row problems come back inside the 200 body;
// only request-level failures produce an error status.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(w, r, s.cfg.Import.MaxFileSize)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errFileTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		respondError(w, r, err, status)
		return
	}

	source := strings.TrimSpace(r.FormValue("source"))
	if source == "" {
		respondError(w, r, errNoSource, http.StatusBadRequest)
		return
	}

	imp, err := core.LookupImporter(source)
	if err != nil {
		s.metrics.ObserveImportRejected(strings.ToLower(source))
		respondError(w, r, err, statusForLookup(err))
		return
	}

	opts := core.ImportOptions{
		ValidatePPSN: s.cfg.Import.ValidatePPSN,
		StrictMode:   s.cfg.Import.StrictMode,
		Encoding:     s.cfg.Import.Encoding,
	}
	if enc := strings.TrimSpace(r.FormValue("encoding")); enc != "" {
		opts.Encoding = enc
	}

	result := imp.Map(data, opts)
	s.metrics.ObserveImport(imp.Source(), result.RecordCount, len(result.Errors), len(result.Warnings))

	logging.FromContext(r.Context()).Info("import finished",
		"source", imp.Source(),
		"bytes", len(data),
		"records", result.RecordCount,
		"errors", len(result.Errors),
		"warnings", len(result.Warnings),
	)

	writeJSON(w, result)
}

// handleListSources returns every known payroll source and whether it can
// be imported yet.
func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"sources": core.Sources()})
}
