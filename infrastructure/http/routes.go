package http

import (
	"leafdesk/frontend/dashboard"
	exportspage "leafdesk/frontend/exports"
	"leafdesk/frontend/factory"
	"leafdesk/frontend/greenleaf"
	"leafdesk/frontend/login"
	"leafdesk/frontend/suppliers"

	"github.com/go-chi/chi/v5"
)

// RegisterLoginRoutes registers guest routes.
func (s *Server) RegisterLoginRoutes() {
	s.router.Get("/login", login.GetLoginScreenHandler(s.Deps.Sessions))
	s.router.Post("/login", login.CreateLoginHandler(s.Deps.API, s.Deps.Sessions, s.SessionTTL))
	s.router.Get("/signup", login.GetSignupScreenHandler(s.Deps.Sessions))
	s.router.Post("/logout", login.LogoutHandler(s.Deps.Sessions))
}

// RegisterFrontendRoutes registers authenticated routes.
func (s *Server) RegisterFrontendRoutes(r chi.Router) chi.Router {
	r.Get("/", dashboard.DashboardQueryHandler(s.Deps))

	s.RegisterSupplierRoutes(r)

	r.Get("/factory", factory.FactoryQueryHandler(s.Deps))
	r.Post("/factory", factory.UpdateFactoryCommandHandler(s.Deps))

	s.RegisterGreenLeafRoutes(r)
	return r
}

func (s *Server) RegisterSupplierRoutes(r chi.Router) {
	r.Get("/suppliers", suppliers.SuppliersQueryHandler(s.Deps))
	r.Post("/suppliers", suppliers.CreateSupplierCommandHandler(s.Deps))
	r.Post("/suppliers/{id}", suppliers.UpdateSupplierCommandHandler(s.Deps))
}

func (s *Server) RegisterGreenLeafRoutes(r chi.Router) {
	r.Get("/green-leaf", greenleaf.GreenLeafQueryHandler(s.Deps))
	r.Get("/green-leaf/export.xlsx", greenleaf.ExportGreenLeafHandler(s.Deps))
	r.Get("/green-leaf/{id}/slip.pdf", greenleaf.DeliverySlipHandler(s.Deps))
	r.Get("/exports", exportspage.ExportHistoryQueryHandler(s.Deps))
}
