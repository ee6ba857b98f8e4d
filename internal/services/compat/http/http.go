// Package http provides http transport for the compat proxy
package http

import (
	"encoding/json"
	"io"
	stdhttp "net/http"

	"meridian/internal/modkit/httpkit"
	perr "meridian/internal/platform/errors"
	svc "meridian/internal/services/compat/service"
)

// Register mounts the proxied legacy routes on the given router
func Register(r httpkit.Router, proxy svc.ProxyPort) {
	h := &handlers{proxy: proxy}
	r.Post("/routes/enrich", httpkit.Handle(h.post("routes/enrich")))
	r.Post("/analyze-supply-chain", httpkit.Handle(h.post("analyze-supply-chain")))
	r.Get("/analysis/health", httpkit.Handle(h.get("analysis/health")))
	r.Get("/analysis/stats", httpkit.Handle(h.get("analysis/stats")))
}

type handlers struct{ proxy svc.ProxyPort }

// post relays an arbitrary JSON body and answers with the downstream status
func (h *handlers) post(path string) func(*stdhttp.Request) httpkit.Response {
	return func(r *stdhttp.Request) httpkit.Response {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return httpkit.Error(perr.JSONErrf("read request body: %v", err))
		}
		var payload any
		if err := json.Unmarshal(raw, &payload); err != nil {
			return httpkit.Error(perr.JSONErrf("request body is not valid JSON"))
		}

		res, err := h.proxy.PostJSON(r.Context(), path, payload)
		if err != nil {
			return httpkit.Error(err)
		}
		return httpkit.Response{Status: res.StatusCode, Body: res.Payload}
	}
}

func (h *handlers) get(path string) func(*stdhttp.Request) httpkit.Response {
	return func(r *stdhttp.Request) httpkit.Response {
		res, err := h.proxy.Get(r.Context(), path)
		if err != nil {
			return httpkit.Error(err)
		}
		return httpkit.Response{Status: res.StatusCode, Body: res.Payload}
	}
}
