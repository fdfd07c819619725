package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/mermaidflow/pkg/attrs"
	"github.com/matzehuels/mermaidflow/pkg/buildinfo"
	"github.com/matzehuels/mermaidflow/pkg/errors"
	"github.com/matzehuels/mermaidflow/pkg/flow"
	flowio "github.com/matzehuels/mermaidflow/pkg/io"
	"github.com/matzehuels/mermaidflow/pkg/mermaid"
	"github.com/matzehuels/mermaidflow/pkg/observability"
	"github.com/matzehuels/mermaidflow/pkg/pipeline"
	"github.com/matzehuels/mermaidflow/pkg/session"
)

const (
	// bufferHeader carries the caller's buffer ID on requests and responses.
	bufferHeader = "X-Buffer-ID"

	// bufferCookie carries the buffer ID for browser sessions.
	bufferCookie = "buffer"
)

// =============================================================================
// Health & Version
// =============================================================================

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// =============================================================================
// Compile
// =============================================================================

type compileResponse struct {
	Source   string    `json:"source"`
	Edges    int       `json:"edges"`
	Bindings int       `json:"bindings"`
	Warnings []string  `json:"warnings"`
	URLs     attrs.Map `json:"urls"`
	Notes    attrs.Map `json:"notes"`
	Sample   bool      `json:"sample"`
	BufferID string    `json:"buffer_id"`
	Text     string    `json:"text"`
	Edited   bool      `json:"edited"`
	Replaced bool      `json:"replaced"`
}

// handleCompile compiles the request body (CSV, JSON or YAML rows; empty
// means the sample flow) and seeds the caller's editor buffer with the
// result.
func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}

	opts, err := s.compileOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Data = body

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	buf, replaced, err := s.seedBuffer(r.Context(), bufferID(r), result.Diagram.Source, result.Maps)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setBufferID(w, buf.ID)

	warnings := make([]string, 0, len(result.Diagram.Warnings))
	for _, w := range result.Diagram.Warnings {
		warnings = append(warnings, errors.UserMessage(w))
	}

	writeJSON(w, http.StatusOK, compileResponse{
		Source:   result.Diagram.Source,
		Edges:    result.Diagram.Edges,
		Bindings: result.Diagram.Bindings,
		Warnings: warnings,
		URLs:     result.Maps.URLs,
		Notes:    result.Maps.Notes,
		Sample:   result.Sample,
		BufferID: buf.ID,
		Text:     buf.Get(),
		Edited:   buf.Edited(),
		Replaced: replaced,
	})
}

// compileOptions merges query parameters over the server defaults.
func (s *Server) compileOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Theme:       s.cfg.Theme,
		Orientation: s.cfg.Orientation,
		Strict:      s.cfg.Strict,
		Format:      string(flowio.FormatFromContentType(r.Header.Get("Content-Type"))),
		Logger:      s.logger,
	}
	if v := q.Get("theme"); v != "" {
		opts.Theme = v
	}
	if v := q.Get("orientation"); v != "" {
		opts.Orientation = v
	}
	if v := q.Get("format"); v != "" {
		opts.Format = v
	}
	if v := q.Get("strict"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "strict must be a boolean, got %q", v)
		}
		opts.Strict = strict
	}
	return opts, nil
}

// seedBuffer loads the buffer with id, or creates one, and seeds it with
// source. A stale or unknown id gets a fresh buffer.
func (s *Server) seedBuffer(ctx context.Context, id, source string, maps attrs.Maps) (*session.Buffer, bool, error) {
	hooks := observability.Buffer()

	var buf *session.Buffer
	if id != "" && session.ValidID(id) {
		b, err := s.store.Get(ctx, id)
		if err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "load buffer")
		}
		hooks.OnBufferLoad(ctx, s.cfg.Backend, b != nil)
		buf = b
	}

	replaced := true
	if buf == nil {
		b, err := session.New(source, s.cfg.BufferTTL)
		if err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "create buffer")
		}
		buf = b
	} else {
		replaced = buf.SeedWith(source)
	}
	hooks.OnBufferSeed(ctx, s.cfg.Backend, replaced)

	buf.Maps = maps
	buf.Touch(s.cfg.BufferTTL)
	if err := s.store.Set(ctx, buf); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "store buffer")
	}
	return buf, replaced, nil
}

// =============================================================================
// Resolve
// =============================================================================

type resolveRequest struct {
	attrs.ClickResult
	Rows []flow.Edge `json:"rows,omitempty"`
}

type resolveResponse struct {
	Entity  string `json:"entity"`
	URL     string `json:"url"`
	Note    string `json:"note"`
	Link    string `json:"link"`
	HasLink bool   `json:"has_link"`
	HasNote bool   `json:"has_note"`
}

// handleResolve resolves a click reported by the renderer against the
// request's rows, or the maps of the caller's last compilation.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode click"))
		return
	}
	if !req.Clicked() {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "entity_clicked is required"))
		return
	}

	var maps attrs.Maps
	if req.Rows != nil {
		maps = attrs.Build(req.Rows)
	} else {
		buf, err := s.loadBuffer(r.Context(), bufferID(r))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		maps = buf.Maps
	}

	res := attrs.Resolve(req.ClickResult, maps)
	writeJSON(w, http.StatusOK, resolveResponse{
		Entity:  res.Entity,
		URL:     res.URL,
		Note:    res.Note,
		Link:    res.SafeLink(),
		HasLink: res.HasLink(),
		HasNote: res.HasNote(),
	})
}

// =============================================================================
// Buffers
// =============================================================================

type bufferResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Seed      string    `json:"seed"`
	Edited    bool      `json:"edited"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newBufferResponse(buf *session.Buffer, o mermaid.Orientation) bufferResponse {
	return bufferResponse{
		ID:        buf.ID,
		Text:      mermaid.Reorient(buf.Get(), o),
		Seed:      buf.Seed,
		Edited:    buf.Edited(),
		UpdatedAt: buf.UpdatedAt,
		ExpiresAt: buf.ExpiresAt,
	}
}

// handleGetBuffer returns a buffer. With ?orientation=LR the text is
// reoriented on the way out; the stored text is not changed.
func (s *Server) handleGetBuffer(w http.ResponseWriter, r *http.Request) {
	o, err := mermaid.ParseOrientation(r.URL.Query().Get("orientation"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	buf, err := s.loadBuffer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBufferResponse(buf, o))
}

type putBufferRequest struct {
	Text  *string `json:"text"`
	Reset bool    `json:"reset"`
}

// handlePutBuffer stores a user edit, or restores the seed with
// {"reset": true}.
func (s *Server) handlePutBuffer(w http.ResponseWriter, r *http.Request) {
	var req putBufferRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode buffer update"))
		return
	}
	if req.Text == nil && !req.Reset {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "text or reset is required"))
		return
	}

	buf, err := s.loadBuffer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Reset {
		buf.Reset()
	} else {
		buf.Set(*req.Text)
	}
	buf.Touch(s.cfg.BufferTTL)
	if err := s.store.Set(r.Context(), buf); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store buffer"))
		return
	}
	observability.Buffer().OnBufferEdit(r.Context(), s.cfg.Backend, len(buf.Text))

	writeJSON(w, http.StatusOK, newBufferResponse(buf, mermaid.TopDown))
}

func (s *Server) handleDeleteBuffer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !session.ValidID(id) {
		s.writeError(w, r, errors.New(errors.ErrCodeBufferNotFound, "buffer %q not found", id))
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "delete buffer"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadBuffer fetches a live buffer or fails with BUFFER_NOT_FOUND.
func (s *Server) loadBuffer(ctx context.Context, id string) (*session.Buffer, error) {
	if !session.ValidID(id) {
		return nil, errors.New(errors.ErrCodeBufferNotFound, "buffer %q not found", id)
	}
	buf, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load buffer")
	}
	observability.Buffer().OnBufferLoad(ctx, s.cfg.Backend, buf != nil)
	if buf == nil {
		return nil, errors.New(errors.ErrCodeBufferNotFound, "buffer %q not found or expired", id)
	}
	return buf, nil
}

// =============================================================================
// Template
// =============================================================================

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+flow.TemplateFilename+`"`)
	if err := flowio.WriteTemplate(w); err != nil {
		s.logger.Error("write template", "err", err)
	}
}

// =============================================================================
// Helpers
// =============================================================================

// bufferID reads the caller's buffer ID from the header, then the cookie.
func bufferID(r *http.Request) string {
	if id := r.Header.Get(bufferHeader); id != "" {
		return id
	}
	if c, err := r.Cookie(bufferCookie); err == nil {
		return c.Value
	}
	return ""
}

func setBufferID(w http.ResponseWriter, id string) {
	w.Header().Set(bufferHeader, id)
	http.SetCookie(w, &http.Cookie{
		Name:     bufferCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError maps coded errors to HTTP statuses and reports them.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	observability.HTTP().OnError(r.Context(), r.Method, routePattern(r), err)
	if status >= 500 {
		s.logger.Error("request failed", "route", routePattern(r), "err", err)
	} else {
		s.logger.Debug("request rejected", "route", routePattern(r), "err", err)
	}

	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status >= 500 {
		msg = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: string(code)})
}

func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidTheme, errors.ErrCodeInvalidOrientation:
		return http.StatusBadRequest
	case errors.ErrCodeMissingColumn, errors.ErrCodeMalformedEdge:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeBufferNotFound, errors.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
