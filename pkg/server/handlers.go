// pkg/server/handlers.go
package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaning/pkg/cleaner"
	"github.com/David-Botos/data-cleaning/pkg/exporter"
	"github.com/David-Botos/data-cleaning/pkg/model"
)

// CreateSession handles POST /sessions. A multipart "file" field is loaded
// immediately; without one the session starts empty.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	upload, err := s.readUpload(w, r)
	if err != nil && !errors.Is(err, errMissingFile) {
		s.failErr(w, r, err)
		return
	}

	id, err := s.registry.Create()
	if err != nil {
		s.failErr(w, r, err)
		return
	}

	view := LoadView{ID: id}
	if upload != nil {
		err = s.registry.With(id, func(sess *cleaner.Session) error {
			out, err := sess.Initialize(upload.name, upload.table, upload.opts)
			if err != nil {
				return err
			}
			return fillLoadView(&view, sess, out)
		})
		if err != nil {
			// A session that failed its first load is not kept
			_ = s.registry.Delete(id)
			s.failErr(w, r, err)
			return
		}
	}

	w.Header().Set("Location", "/sessions/"+id)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, view)
}

// ReplaceSource handles PUT /sessions/{id}/source
func (s *Server) ReplaceSource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	upload, err := s.readUpload(w, r)
	if err != nil {
		s.failErr(w, r, err)
		return
	}

	view := LoadView{ID: id}
	err = s.registry.With(id, func(sess *cleaner.Session) error {
		out, err := sess.Load(upload.name, upload.table, upload.opts)
		if err != nil {
			return err
		}
		return fillLoadView(&view, sess, out)
	})
	if err != nil {
		s.failErr(w, r, err)
		return
	}

	render.JSON(w, r, view)
}

// GetSession handles GET /sessions/{id}
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	var view SessionView
	err := s.registry.With(chi.URLParam(r, "id"), func(sess *cleaner.Session) error {
		var err error
		view, err = newSessionView(sess, s.cfg.PreviewRows)
		return err
	})
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// DeleteSession handles DELETE /sessions/{id}
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Delete(chi.URLParam(r, "id")); err != nil {
		s.failErr(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// GetSummary handles GET /sessions/{id}/summary
func (s *Server) GetSummary(w http.ResponseWriter, r *http.Request) {
	var report model.SummaryReport
	err := s.registry.With(chi.URLParam(r, "id"), func(sess *cleaner.Session) error {
		var err error
		report, err = sess.Summary()
		return err
	})
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// GetDuplicates handles GET /sessions/{id}/duplicates
func (s *Server) GetDuplicates(w http.ResponseWriter, r *http.Request) {
	var view DuplicatesView
	err := s.registry.With(chi.URLParam(r, "id"), func(sess *cleaner.Session) error {
		dups, indices, err := sess.Duplicates()
		if err != nil {
			return err
		}
		view = DuplicatesView{
			Count:   len(indices),
			Indices: indices,
			Sample:  newTableView(dups, s.cfg.DuplicateSampleRows),
		}
		return nil
	})
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// ApplyStrategies handles POST /sessions/{id}/strategies
func (s *Server) ApplyStrategies(w http.ResponseWriter, r *http.Request) {
	var req StrategiesRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.fail(w, r, badRequest(fmt.Errorf("invalid JSON body: %w", err)))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.failErr(w, r, err)
		return
	}

	specs := make(model.Strategies, len(req.Strategies))
	for _, sr := range req.Strategies {
		kind, err := model.ParseStrategyKind(sr.Kind)
		if err != nil {
			s.fail(w, r, badRequest(err))
			return
		}
		specs[sr.Column] = model.StrategySpec{Kind: kind, Param: sr.Param}
	}

	var view ApplyView
	err := s.registry.With(chi.URLParam(r, "id"), func(sess *cleaner.Session) error {
		result, err := sess.ApplyStrategies(specs)
		if err != nil {
			return err
		}
		report, err := sess.Summary()
		if err != nil {
			return err
		}
		view = ApplyView{
			Changed:     result.Changed,
			Applied:     nonNil(result.Applied),
			Skipped:     make([]string, len(result.Skipped)),
			CellsFilled: result.CellsFilled,
			Summary:     report,
		}
		for i, n := range result.Skipped {
			view.Skipped[i] = n.String()
		}
		return nil
	})
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// RemoveDuplicates handles POST /sessions/{id}/dedupe
func (s *Server) RemoveDuplicates(w http.ResponseWriter, r *http.Request) {
	s.removeRows(w, r, (*cleaner.Session).RemoveDuplicateRows)
}

// DropMissing handles POST /sessions/{id}/dropna
func (s *Server) DropMissing(w http.ResponseWriter, r *http.Request) {
	s.removeRows(w, r, (*cleaner.Session).DropAllMissing)
}

func (s *Server) removeRows(w http.ResponseWriter, r *http.Request, op func(*cleaner.Session) (int, error)) {
	var view RowsRemovedView
	err := s.registry.With(chi.URLParam(r, "id"), func(sess *cleaner.Session) error {
		removed, err := op(sess)
		if err != nil {
			return err
		}
		report, err := sess.Summary()
		if err != nil {
			return err
		}
		view = RowsRemovedView{Removed: removed, Summary: report}
		return nil
	})
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// Reset handles POST /sessions/{id}/reset
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	var report model.SummaryReport
	err := s.registry.With(chi.URLParam(r, "id"), func(sess *cleaner.Session) error {
		if err := sess.Reset(); err != nil {
			return err
		}
		var err error
		report, err = sess.Summary()
		return err
	})
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// ExportCSV handles GET /sessions/{id}/export.csv
func (s *Server) ExportCSV(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, exporter.DefaultCSVName, exporter.ContentTypeCSV, func(t *model.Table) ([]byte, error) {
		return exporter.CSVBytes(t, exporter.WriteOptions{BOMPrefix: s.cfg.CSVBOM})
	})
}

// ExportXLSX handles GET /sessions/{id}/export.xlsx
func (s *Server) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, exporter.DefaultXLSXName, exporter.ContentTypeXLSX, exporter.XLSXBytes)
}

func (s *Server) export(
	w http.ResponseWriter,
	r *http.Request,
	filename, contentType string,
	encode func(*model.Table) ([]byte, error),
) {
	var data []byte
	err := s.registry.With(chi.URLParam(r, "id"), func(sess *cleaner.Session) error {
		working, err := sess.Working()
		if err != nil {
			return err
		}
		data, err = encode(working)
		return err
	})
	if err != nil {
		s.failErr(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("Failed to write export", zap.String("file", filename), zap.Error(err))
	}
}

// upload is a parsed multipart file plus its load options
type upload struct {
	name  string
	table *model.Table
	opts  model.LoadOptions
}

// readUpload parses the multipart form and loads its "file" field
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	limit := s.cfg.MaxUploadBytes()
	if r.ContentLength > limit {
		return nil, &http.MaxBytesError{Limit: limit}
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, errMissingFile
		}
		return nil, fmt.Errorf("%w: %v", errInvalidForm, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, errMissingFile
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	table, err := s.loader.LoadReader(name, file)
	if err != nil {
		return nil, err
	}

	return &upload{
		name:  name,
		table: table,
		opts: model.LoadOptions{
			RemoveDuplicates: formBool(r, "remove_duplicates"),
			DropMissing:      formBool(r, "drop_missing"),
		},
	}, nil
}

func fillLoadView(view *LoadView, sess *cleaner.Session, out cleaner.LoadOutcome) error {
	report, err := sess.Summary()
	if err != nil {
		return err
	}
	view.Source = sess.Source()
	view.Reinitialized = out.Reinitialized
	view.DuplicatesRemoved = out.DuplicatesRemoved
	view.MissingRemoved = out.MissingRemoved
	view.Summary = &report
	return nil
}

func formBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.FormValue(key))
	return err == nil && v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
