package host

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"

	"github.com/peteski22/dynparam/internal/parameter"
	pkg "github.com/peteski22/dynparam/pkg/contract/parameter"
)

// maxSubmissionBytes bounds the size of a JSON value submission.
const maxSubmissionBytes = 1 << 20

// Handlers is the form-processing layer of the host: it renders choice lists
// and binds submitted values through the registered definitions.
type Handlers struct {
	logger   hclog.Logger
	registry *Registry
}

// NewHandlers constructs Handlers serving the definitions in registry.
func NewHandlers(logger hclog.Logger, registry *Registry) *Handlers {
	return &Handlers{
		logger:   logger.Named("handlers"),
		registry: registry,
	}
}

// parameterInfo describes a registered parameter.
type parameterInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	DisplayName string `json:"display_name"`
	Target      string `json:"target"`
	UUID        string `json:"uuid"`
}

// choicesResponse carries the rendered choice list of a parameter.
type choicesResponse struct {
	Name    string    `json:"name"`
	Choices []*string `json:"choices"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Routes mounts the parameter API on r.
func (h *Handlers) Routes(r chi.Router) {
	r.Route("/api/v1/parameters", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{name}/choices", h.choices)
		r.Get("/{name}/value", h.value)
		r.Post("/{name}/value", h.value)
	})
}

// Middleware returns a Chi-compatible middleware logging every request through the host logger.
func (h *Handlers) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			h.logger.Debug("request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

func (h *Handlers) list(w http.ResponseWriter, _ *http.Request) {
	defs := h.registry.Definitions()

	out := make([]parameterInfo, 0, len(defs))
	for _, def := range defs {
		spec := def.Spec()
		desc := def.Descriptor()
		out = append(out, parameterInfo{
			Name:        spec.Name,
			Description: spec.Description,
			Type:        desc.Type,
			DisplayName: desc.DisplayName,
			Target:      string(spec.Target),
			UUID:        spec.UUID,
		})
	}

	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) choices(w http.ResponseWriter, r *http.Request) {
	def, ok := h.lookup(w, r)
	if !ok {
		return
	}

	lister, ok := def.(pkg.ChoiceLister)
	if !ok {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "parameter does not offer choices"})
		return
	}

	choices := lister.Choices(r.Context())
	rendered := make([]*string, len(choices))
	for i, choice := range choices {
		if s, ok := parameter.StringForm(choice); ok {
			rendered[i] = &s
		}
	}

	h.writeJSON(w, http.StatusOK, choicesResponse{
		Name:    def.Spec().Name,
		Choices: rendered,
	})
}

// value binds a submission: JSON bodies go through the JSON binding, anything
// else is read from the query string and form body.
func (h *Handlers) value(w http.ResponseWriter, r *http.Request) {
	def, ok := h.lookup(w, r)
	if !ok {
		return
	}

	form, err := newRequestForm(r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var v pkg.Value
	if isJSON(r) {
		var data []byte
		data, err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxSubmissionBytes))
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		v, err = def.CreateValueFromJSON(r.Context(), form, data)
	} else {
		v, err = def.CreateValue(r.Context(), form)
	}

	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	if v == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeJSON(w, http.StatusOK, v)
}

func (h *Handlers) lookup(w http.ResponseWriter, r *http.Request) (pkg.Definition, bool) {
	def, err := h.registry.Lookup(chi.URLParam(r, "name"))
	if err != nil {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return nil, false
	}
	return def, true
}

func (h *Handlers) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, parameter.ErrInvalidArgument) {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	h.logger.Error("failed to create parameter value", "error", err, "request_id", middleware.GetReqID(ctx))
	h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to write response", "error", err)
	}
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}
