package server

import (
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/teranos/formulary/errors"
	"github.com/teranos/formulary/export"
	"github.com/teranos/formulary/logger"
	"github.com/teranos/formulary/render"
	"github.com/teranos/formulary/sym"
	"github.com/teranos/formulary/version"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		State:   s.State().String(),
		Version: version.Get().Version,
		Clients: s.ClientCount(),
	})
}

// GET /api/symbols[?category=greek]
func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("category")
	if raw == "" {
		_ = writeJSON(w, http.StatusOK, sym.Symbols())
		return
	}

	c, ok := sym.ParseCategory(raw)
	if !ok {
		writeError(w, r, errors.WithHint(
			errors.NewInvalidRequestError("unknown category %q", raw),
			"GET /api/categories lists the valid ids",
		))
		return
	}
	_ = writeJSON(w, http.StatusOK, sym.ByCategory(c))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats := sym.Categories()
	out := make([]CategoryInfo, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryInfo{ID: c, Title: c.Title(), Count: len(sym.ByCategory(c))})
	}
	_ = writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	tmpls := sym.Templates()
	out := make([]TemplateInfo, 0, len(tmpls))
	for _, t := range tmpls {
		out = append(out, TemplateInfo{Name: t.Name, Notation: t.Notation, Rendered: render.Render(t.Notation)})
	}
	_ = writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	t, ok := sym.LookupTemplate(name)
	if !ok {
		writeError(w, r, errors.NewNotFoundError("template %q", name))
		return
	}
	_ = writeJSON(w, http.StatusOK, TemplateInfo{Name: t.Name, Notation: t.Notation, Rendered: render.Render(t.Notation)})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	if err := s.checkNotationSize(req.Notation); err != nil {
		writeError(w, r, err)
		return
	}

	resp := RenderResponse{Notation: req.Notation}
	if req.Trace {
		resp.Rendered, resp.Steps = render.Trace(req.Notation)
	} else {
		resp.Rendered = render.Render(req.Notation)
	}

	if logger.ShouldOutput(int(s.verbosity.Load()), logger.OutputRenderTrace) {
		logger.LoggerFromContext(r.Context()).Debugw("Rendered notation",
			logger.FieldNotation, req.Notation,
			logger.FieldRendered, resp.Rendered,
		)
	}
	_ = writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	var req InsertRequest
	if !s.readJSON(w, r, &req) {
		return
	}

	end := req.Start
	if req.End != nil {
		end = *req.End
	}
	notation, caret := render.InsertRange(req.Notation, req.Start, end, req.Token)
	if err := s.checkNotationSize(notation); err != nil {
		writeError(w, r, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, InsertResponse{
		Notation: notation,
		Caret:    caret,
		Rendered: render.Render(notation),
	})
}

// GET /api/export.svg?notation=...
func (s *Server) handleExportSVG(w http.ResponseWriter, r *http.Request) {
	notation := r.URL.Query().Get("notation")
	if err := s.checkNotationSize(notation); err != nil {
		writeError(w, r, err)
		return
	}

	opts := *s.exportOpt.Load()
	data, err := export.SVGBytes(notation, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": opts.FileName}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Debugw("SVG write failed", logger.FieldError, err)
	}
}
