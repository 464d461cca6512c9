package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/viant/posts/model"
	"github.com/viant/posts/service/dao"
	"github.com/viant/posts/service/dao/criteria"
)

// Collection is the part of the posts service exposed over HTTP.
type Collection interface {
	Create(ctx context.Context, payload *model.Payload) (*model.Post, error)
	FindMany(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Post, error)
	Load(ctx context.Context, id string) (*model.Post, error)
}

// Handler serves the posts REST API:
//
//	POST /posts        create from {"text": "..."}
//	GET  /posts        list, optional ?skip=&limit=
//	GET  /posts/{id}   single post
type Handler struct {
	collection Collection
	logger     *slog.Logger
	mux        *http.ServeMux
}

func NewHandler(collection Collection, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	ret := &Handler{collection: collection, logger: logger, mux: http.NewServeMux()}
	ret.mux.HandleFunc("POST /posts", ret.create)
	ret.mux.HandleFunc("GET /posts", ret.findMany)
	ret.mux.HandleFunc("GET /posts/{id}", ret.load)
	return ret
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	payload := &model.Payload{}
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		h.fail(w, r, http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err))
		return
	}
	post, err := h.collection.Create(r.Context(), payload)
	if err != nil {
		h.fail(w, r, statusOf(err), err)
		return
	}
	h.respond(w, http.StatusCreated, post)
}

func (h *Handler) findMany(w http.ResponseWriter, r *http.Request) {
	parameters, err := windowParameters(r)
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, err)
		return
	}
	posts, err := h.collection.FindMany(r.Context(), parameters...)
	if err != nil {
		h.fail(w, r, statusOf(err), err)
		return
	}
	h.respond(w, http.StatusOK, posts)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) {
	post, err := h.collection.Load(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, statusOf(err), err)
		return
	}
	h.respond(w, http.StatusOK, post)
}

// windowParameters converts skip/limit query values, rejecting negative or
// non-numeric input before it reaches the collection.
func windowParameters(r *http.Request) ([]*dao.Parameter, error) {
	query := r.URL.Query()
	var parameters []*dao.Parameter
	if query.Has("skip") {
		parameters = append(parameters, dao.NewParameter(dao.SkipParameter, query.Get("skip")))
	}
	if query.Has("limit") {
		parameters = append(parameters, dao.NewParameter(dao.LimitParameter, query.Get("limit")))
	}
	window, err := criteria.WindowOf(parameters...)
	if err != nil {
		return nil, err
	}
	if err = window.Validate(); err != nil {
		return nil, err
	}
	return parameters, nil
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, dao.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, dao.ErrInvalidWindow), errors.Is(err, dao.ErrInvalidID), errors.Is(err, dao.ErrNilEntity):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		h.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	h.respond(w, status, &errorResponse{Error: err.Error()})
}

func (h *Handler) respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("failed to write response", "error", err)
	}
}
