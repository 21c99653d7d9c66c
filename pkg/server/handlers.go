package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/plt-rs/plt/pkg/config"
	"github.com/plt-rs/plt/pkg/errors"
	"github.com/plt-rs/plt/pkg/pipeline"
	"github.com/plt-rs/plt/pkg/render/sink"
)

// Response headers set on rendered artifacts.
const (
	HeaderCache           = "X-Cache"
	HeaderDescriptionHash = "X-Description-Hash"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    errors.Code  `json:"code"`
	Stage   errors.Stage `json:"stage,omitempty"`
	Message string       `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sink.ContentTypes)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	opts, err := renderOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format, err := descriptionFormat(r.Header.Get("Content-Type"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read description"))
		return
	}
	desc, err := config.Decode(body, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Render(ctx, desc, opts)
	if err != nil {
		if ctx.Err() != nil {
			// The timeout middleware answers once the handler returns.
			return
		}
		s.writeError(w, r, err)
		return
	}

	out := opts.Formats[0]
	h := w.Header()
	h.Set("Content-Type", sink.ContentTypes[out])
	h.Set(HeaderDescriptionHash, result.DescriptionHash)
	if result.CacheInfo.AllHit() {
		h.Set(HeaderCache, "hit")
	} else {
		h.Set(HeaderCache, "miss")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(result.Artifacts[out])
}

// renderOptions reads the pipeline options from the query string.
func renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{}
	if f := q.Get("format"); f != "" {
		opts.Formats = []string{f}
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "scale %q", v)
		}
		opts.Scale = scale
	}
	if v := q.Get("quality"); v != "" {
		quality, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "quality %q", v)
		}
		opts.Quality = quality
	}
	if v := q.Get("refresh"); v != "" {
		refresh, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "refresh %q", v)
		}
		opts.Refresh = refresh
	}
	opts.EmbedFont = q.Has("embed_font")
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

// descriptionFormat maps a request Content-Type onto a description format.
// An absent Content-Type means JSON.
func descriptionFormat(contentType string) (string, error) {
	if contentType == "" {
		return config.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "content type %q", contentType)
	}
	switch mt {
	case "application/json":
		return config.FormatJSON, nil
	case "application/toml":
		return config.FormatTOML, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return config.FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported description type %q", mt)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		status = http.StatusRequestEntityTooLarge
	case errors.IsInputError(err):
		status = http.StatusBadRequest
	}

	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("render failed", "id", RequestID(r.Context()), "err", err)
	} else {
		s.logger.Debug("rejected request", "id", RequestID(r.Context()), "code", code, "err", err)
	}
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Stage:   errors.StageOf(err),
		Message: errors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
