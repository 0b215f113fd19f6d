// Package handler provides the HTTP router and collection handlers.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/stevemurr/simple-blog-server/logging"
	"github.com/stevemurr/simple-blog-server/respond"
	"github.com/stevemurr/simple-blog-server/store"
	"github.com/stevemurr/simple-blog-server/validate"
)

// Options configures the served collection.
type Options struct {
	// Endpoint is the collection's path segment, e.g. "blogs".
	Endpoint string
	// Label is the singular record name used in messages, e.g. "Blog".
	Label string
	// Greeting is the plain-text body of GET /.
	Greeting string
	// Policy is applied on create and replace. Nil disables validation.
	Policy *validate.Policy
	// MaxBodyBytes bounds request bodies. Zero means unlimited.
	MaxBodyBytes int64
}

// Handler holds the server dependencies and registers routes.
type Handler struct {
	store  store.Store
	opts   Options
	msgs   messages
	logger *slog.Logger
	mux    *http.ServeMux
}

// New creates a Handler and wires up all routes.
func New(s store.Store, opts Options, logger *slog.Logger) *Handler {
	if opts.Endpoint == "" {
		opts.Endpoint = "blogs"
	}
	if opts.Label == "" {
		opts.Label = "Blog"
	}
	if logger == nil {
		logger = logging.Nop()
	}
	h := &Handler{
		store:  s,
		opts:   opts,
		msgs:   newMessages(opts.Endpoint, opts.Label),
		logger: logger,
		mux:    http.NewServeMux(),
	}
	for _, rt := range h.routes() {
		h.mux.HandleFunc(rt.pattern(), rt.handler)
	}
	return h
}

// ServeHTTP makes Handler an http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// ---------- status endpoints ----------

func (h *Handler) root(w http.ResponseWriter, _ *http.Request) {
	respond.Text(w, http.StatusOK, h.opts.Greeting)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ---------- fallbacks ----------

func (h *Handler) methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	respond.Error(w, http.StatusMethodNotAllowed, respond.MethodNotAllowed, "")
}

func (h *Handler) endpointNotFound(w http.ResponseWriter, _ *http.Request) {
	respond.Error(w, http.StatusNotFound, respond.NotFound, "Endpoint not found")
}

func (h *Handler) idRequired(w http.ResponseWriter, _ *http.Request) {
	respond.Error(w, http.StatusNotFound, respond.NotFound, h.msgs.idRequired)
}
