package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/stevemurr/simple-blog-server/middleware"
	"github.com/stevemurr/simple-blog-server/respond"
	"github.com/stevemurr/simple-blog-server/store"
)

const (
	msgInvalidPayload = "Invalid JSON payload or missing fields"
	msgInvalidJSON    = "Invalid JSON payload"
)

var errNotObject = errors.New("body is not a JSON object")

type messages struct {
	listed     string
	fetched    string
	created    string
	updated    string
	patched    string
	deleted    string
	notFound   string
	idRequired string
}

func newMessages(endpoint, label string) messages {
	return messages{
		listed:     "Fetched " + endpoint,
		fetched:    "Fetched " + strings.ToLower(label),
		created:    label + " created",
		updated:    label + " updated",
		patched:    label + " partially updated",
		deleted:    label + " deleted",
		notFound:   label + " not found",
		idRequired: label + " ID required",
	}
}

// ---------- collection ----------

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	recs, err := h.store.List(r.Context())
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	respond.Message(w, http.StatusOK, h.msgs.listed, recs)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	fields, err := h.readObject(w, r)
	if err != nil {
		h.bodyError(w, r, err, msgInvalidPayload)
		return
	}
	if err := h.opts.Policy.Check(fields); err != nil {
		h.bodyError(w, r, err, msgInvalidPayload)
		return
	}
	rec, err := h.store.Create(r.Context(), fields)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.logger.Debug("record created", "request_id", middleware.RequestID(r.Context()), "id", rec.ID())
	respond.Message(w, http.StatusCreated, h.msgs.created, rec)
}

// ---------- single record ----------

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	rec, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	respond.Message(w, http.StatusOK, h.msgs.fetched, rec)
}

// replace checks the record exists before looking at the body, so an
// unknown id is a 404 even when the payload is also invalid.
func (h *Handler) replace(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if _, err := h.store.Get(r.Context(), id); err != nil {
		h.storeError(w, r, err)
		return
	}
	fields, err := h.readObject(w, r)
	if err != nil {
		h.bodyError(w, r, err, msgInvalidPayload)
		return
	}
	if err := h.opts.Policy.Check(fields); err != nil {
		h.bodyError(w, r, err, msgInvalidPayload)
		return
	}
	rec, err := h.store.Replace(r.Context(), id, fields)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	respond.Message(w, http.StatusOK, h.msgs.updated, rec)
}

func (h *Handler) patch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if _, err := h.store.Get(r.Context(), id); err != nil {
		h.storeError(w, r, err)
		return
	}
	fields, err := h.readObject(w, r)
	if err != nil {
		h.bodyError(w, r, err, msgInvalidJSON)
		return
	}
	rec, err := h.store.Patch(r.Context(), id, fields)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	respond.Message(w, http.StatusOK, h.msgs.patched, rec)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.storeError(w, r, err)
		return
	}
	respond.Message(w, http.StatusOK, h.msgs.deleted, nil)
}

// ---------- helpers ----------

// pathID parses the {id} segment. A non-integer id can never match a
// record, so it is reported as not found.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respond.Error(w, http.StatusNotFound, respond.NotFound, h.msgs.notFound)
		return 0, false
	}
	return id, true
}

// readObject buffers the whole body and decodes exactly one JSON object.
func (h *Handler) readObject(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	body := r.Body
	if h.opts.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	if err := dec.Decode(new(any)); err != io.EOF {
		return nil, errors.New("decode body: unexpected data after JSON value")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return obj, nil
}

func (h *Handler) bodyError(w http.ResponseWriter, r *http.Request, err error, message string) {
	h.logger.Debug("rejected request body",
		"request_id", middleware.RequestID(r.Context()),
		"error", err,
	)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respond.Error(w, http.StatusRequestEntityTooLarge, respond.PayloadTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		return
	}
	respond.Error(w, http.StatusBadRequest, respond.BadRequest, message)
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, respond.NotFound, h.msgs.notFound)
		return
	}
	h.logger.Error("store error",
		"request_id", middleware.RequestID(r.Context()),
		"error", err,
	)
	respond.Error(w, http.StatusInternalServerError, respond.InternalServerError, err.Error())
}
