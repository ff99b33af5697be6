// package server hosts the local HTTP listener for the OAuth2 redirect.
package server

import "net/http"

// Handler defines the interface for HTTP request handlers served by the
// local listener.
type Handler interface {
	http.Handler
	Routes() []string // Routes returns the path patterns this handler serves
}

// NewMux builds an [http.ServeMux] with each handler registered under every
// route it declares.
func NewMux(handlers ...Handler) *http.ServeMux {
	mux := http.NewServeMux()
	for _, h := range handlers {
		for _, route := range h.Routes() {
			mux.Handle(route, h)
		}
	}
	return mux
}
