package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupBookRoutes injects the catalog api endpoints. Reads are public,
// every mutating endpoint goes through the credentials gate.
func (api *APIHandler) SetupBookRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/", m.public(api.Index))
	router.GET("/status", m.public(api.Status))
	router.GET("/api/health", m.public(api.Health))
	router.GET("/livros", m.public(api.GetAllBooks))
	router.GET("/livros/:id", m.public(api.GetOneBook))
	router.POST("/livros", m.gated(api.CreateBook))
	router.PUT("/edit/:id", m.gated(api.UpdateBook))
	router.DELETE("/delete/:id", m.gated(api.DeleteOneBook))
	return router
}
