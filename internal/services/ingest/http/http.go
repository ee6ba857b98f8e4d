// Package http provides http transport for ingest
package http

import (
	"io"
	stdhttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"meridian/internal/modkit/httpkit"
	perr "meridian/internal/platform/errors"
	"meridian/internal/services/ingest/domain"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// Register mounts ingest endpoints on the given router
func Register(r httpkit.Router, svc domain.IngestPort) {
	h := &handlers{svc: svc}
	r.Post("/upload", httpkit.Handle(h.upload))
	httpkit.Get(r, "/uploads", h.list)
	httpkit.Get(r, "/uploads/{upload_id}", h.get)
}

type handlers struct{ svc domain.IngestPort }

// upload accepts one multipart file under the "file" field
// cached uploads answer 200, fresh ones 201
func (h *handlers) upload(r *stdhttp.Request) httpkit.Response {
	file, header, err := r.FormFile("file")
	if err != nil {
		return httpkit.Error(perr.Validationf("multipart field %q is required", "file"))
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return httpkit.Error(perr.Wrapf(err, perr.ErrorCodeStorage, "read multipart body"))
	}

	res, err := h.svc.Ingest(r.Context(), domain.FileInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return httpkit.Error(err)
	}
	if res.Cached {
		return httpkit.OK(res)
	}
	return httpkit.Created(res)
}

func (h *handlers) list(r *stdhttp.Request) (any, error) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, perr.Validationf("limit must be an integer")
		}
		limit = n
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	uploads, err := h.svc.List(r.Context(), limit)
	if err != nil {
		return nil, err
	}
	return struct {
		Count   int             `json:"count"`
		Uploads []domain.Upload `json:"uploads"`
	}{Count: len(uploads), Uploads: uploads}, nil
}

func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), chi.URLParam(r, "upload_id"))
}
