// Package http provides http transport for normalization
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"meridian/internal/modkit/httpkit"
	"meridian/internal/platform/net/http/bind"
	"meridian/internal/services/normalization/domain"
)

// Register mounts normalization endpoints on the given router
// routes hang off the ingest upload resources, so the full paths are spelled
// out here instead of re-routing the ingest prefix
func Register(r httpkit.Router, svc domain.NormalizerPort) {
	h := &handlers{svc: svc}
	r.Post("/ingest/uploads/{upload_id}/normalize", httpkit.Handle(h.normalize))
	httpkit.Get(r, "/ingest/uploads/{upload_id}/report", h.report)
}

type handlers struct{ svc domain.NormalizerPort }

// normalize accepts an optional JSON body carrying max_errors
// an empty body runs with the configured defaults
func (h *handlers) normalize(r *stdhttp.Request) httpkit.Response {
	var in domain.NormalizeInput
	if r.ContentLength > 0 {
		parsed, err := bind.ParseJSON[domain.NormalizeInput](r)
		if err != nil {
			return httpkit.Error(err)
		}
		in = parsed
	}

	maxErrors := 0
	if in.MaxErrors != nil {
		maxErrors = *in.MaxErrors
	}

	report, err := h.svc.Normalize(r.Context(), chi.URLParam(r, "upload_id"), maxErrors)
	if err != nil {
		return httpkit.Error(err)
	}
	return httpkit.OK(report)
}

func (h *handlers) report(r *stdhttp.Request) (any, error) {
	return h.svc.Report(r.Context(), chi.URLParam(r, "upload_id"))
}
