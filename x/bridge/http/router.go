package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterMux binds gorilla/mux routes.
func (h *Handler) RegisterMux(r *mux.Router) {
	r.HandleFunc(routeChains, h.handleChains).Methods(http.MethodGet).Name(routeNameChains)
	r.HandleFunc(routeChainByID, h.handleChain).Methods(http.MethodGet).Name(routeNameChainByID)
	r.HandleFunc(routeEncodeMessage, h.handleEncodeMessage).
		Methods(http.MethodPost).
		Name(routeNameEncodeMessage)
	r.HandleFunc(routeEncodeCommand, h.handleEncodeCommand).
		Methods(http.MethodPost).
		Name(routeNameEncodeCommand)
	r.HandleFunc(routeDecodeScript, h.handleDecodeScript).
		Methods(http.MethodPost).
		Name(routeNameDecodeScript)
	r.HandleFunc(routeFunctionSelect, h.handleFunctionSelector).
		Methods(http.MethodPost).
		Name(routeNameFunctionSelect)
}
