// Package rest carries the plain HTTP surface of the realtime server. The
// CRUD API for users, chats and messages lives in an external collaborator;
// only health checking belongs here.
package rest

import "net/http"

// Routes registers the REST endpoints on the shared mux.
func Routes(mux *http.ServeMux) {
	mux.HandleFunc("/ping", PingHandler)
}
