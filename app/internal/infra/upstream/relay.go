package upstream

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"example.com/storefront/app/internal/domain/outcome"
)

// Relay forwards browser calls to the upstream unchanged so the browser only
// ever talks to its own origin. It has no business logic: method, body,
// credential header and query go out as received, status and JSON body come
// back verbatim.
type Relay struct {
	c      *Client
	prefix string
}

type relayFailure struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Status  string `json:"status"`
}

func (r *Relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		w.Header().Set("Allow", "GET, POST, PUT, DELETE")
		writeRelayJSON(w, http.StatusMethodNotAllowed, relayFailure{Message: "Method not allowed", Status: "fail"})
		return
	}

	path := strings.TrimPrefix(req.URL.Path, r.prefix)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	target := r.c.baseURL + path
	if req.URL.RawQuery != "" {
		target += "?" + req.URL.RawQuery
	}

	var body io.Reader
	if req.Method == http.MethodPost || req.Method == http.MethodPut {
		raw, err := io.ReadAll(io.LimitReader(req.Body, maxResponseBodySize))
		if err == nil && len(raw) > 0 {
			body = bytes.NewReader(raw)
		}
	}

	out, err := http.NewRequestWithContext(req.Context(), req.Method, target, body)
	if err != nil {
		writeRelayJSON(w, http.StatusBadGateway, relayFailure{Message: "Proxy fetch error", Error: err.Error(), Status: "fail"})
		return
	}
	contentType := req.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	out.Header.Set("Content-Type", contentType)
	if token := req.Header.Get(credentialHeader); token != "" {
		out.Header.Set(credentialHeader, token)
	}

	start := time.Now()
	resp, err := r.c.httpClient.Do(out)
	if err != nil {
		r.c.metrics.observe("relay", outcome.Transport(err), time.Since(start))
		r.c.log.Error("relay fetch failed", slog.String("path", path), slog.Any("err", err))
		writeRelayJSON(w, http.StatusBadGateway, relayFailure{Message: "Proxy fetch error", Error: err.Error(), Status: "fail"})
		return
	}
	defer resp.Body.Close()
	r.c.metrics.observe("relay", nil, time.Since(start))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		writeRelayJSON(w, http.StatusBadGateway, relayFailure{Message: "Proxy fetch error", Error: err.Error(), Status: "fail"})
		return
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		msg := string(trimmed)
		if msg == "" {
			msg = "Upstream error"
		}
		writeRelayJSON(w, resp.StatusCode, relayFailure{Message: msg, Status: "fail"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(trimmed)
}

func writeRelayJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
