package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// administrative routes
	router.Group(func(r chi.Router) {
		r.Post("/api/admin/sync", h.runSync)
		r.Get("/api/admin/panels", h.listPanels)
		r.Post("/api/admin/users", h.createUser)
		r.Get("/api/admin/users", h.listUsers)
		r.Delete("/api/admin/users/{id}", h.deleteUser)
		r.Post("/api/admin/assignments", h.issueAssignment)
		r.Get("/api/admin/assignments/{id}/qr", h.assignmentQR)
		r.Get("/api/admin/assignments/{id}/scans", h.assignmentScans)
	})

	// verification routes, reached by scanning a QR credential
	router.Group(func(r chi.Router) {
		r.Post("/api/access/verify", h.verify)
		r.Post("/api/access/otp/request", h.requestOtp)
		r.Post("/api/access/otp/redeem", h.redeemOtp)
	})

	// token-scoped content routes
	router.Group(func(r chi.Router) {
		r.Use(h.token)
		r.Get("/api/access/files", h.listScopedFiles)
		r.Get("/api/access/files/{name}", h.getScopedFile)
	})

	return router
}
