package server

import (
	"fmt"
	"net/http"
	"sync"
)

// Result carries the outcome of a single authorization redirect: either the
// authorization code or the error reported by the provider.
type Result struct {
	Code string
	Err  error
}

// CallbackHandler accepts the OAuth2 redirect, validates the state parameter
// and delivers the authorization code over a channel. The code-for-token
// exchange happens in the caller so the blocking wait stays bounded and
// cancelable there.
type CallbackHandler struct {
	state   string
	path    string
	results chan Result
	once    sync.Once
	mu      sync.Mutex
	hit     bool
}

// NewCallbackHandler creates a handler serving the given path (usually
// /callback) that only accepts redirects carrying the given state token.
func NewCallbackHandler(path, state string) *CallbackHandler {
	if path == "" {
		path = "/callback"
	}
	return &CallbackHandler{
		state:   state,
		path:    path,
		results: make(chan Result, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{h.path}
}

// Result returns the channel on which exactly one [Result] is delivered
// before the channel is closed.
func (h *CallbackHandler) Result() <-chan Result {
	return h.results
}

// ServeHTTP handles the redirect request. Repeat hits after the first are
// rejected so a stray reload cannot re-trigger the flow.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.hit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.hit = true
	h.mu.Unlock()

	query := r.URL.Query()

	if state := query.Get("state"); state != h.state {
		h.deliver(Result{Err: fmt.Errorf("state mismatch")})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := query.Get("code")
	if code == "" {
		errParam := query.Get("error")
		errDesc := query.Get("error_description")
		h.deliver(Result{Err: fmt.Errorf("authorization denied: %s %s", errParam, errDesc)})
		h.writePage(w, http.StatusBadRequest, "✗ Authorization Failed",
			"The authorization request was denied. You can close this window.")
		return
	}

	h.deliver(Result{Code: code})
	h.writePage(w, http.StatusOK, "✓ Authorization Successful",
		"You can close this window and return to the terminal.")
}

func (h *CallbackHandler) deliver(result Result) {
	h.once.Do(func() {
		h.results <- result
		close(h.results)
	})
}

func (h *CallbackHandler) writePage(w http.ResponseWriter, status int, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 20vh;">
	<h1>%s</h1>
	<p>%s</p>
</body>
</html>
`, title, title, body)
}
