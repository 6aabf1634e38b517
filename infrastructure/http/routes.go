package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"dentastock/frontend/activity"
	admindashboard "dentastock/frontend/adminDashboard"
	"dentastock/frontend/analytics"
	expirypage "dentastock/frontend/expiry"
	exportspage "dentastock/frontend/exports"
	historypage "dentastock/frontend/history"
	"dentastock/frontend/inventory"
	"dentastock/frontend/login"
	profilepage "dentastock/frontend/profile"
	"dentastock/frontend/receiving"
	roomspage "dentastock/frontend/rooms"
	"dentastock/infrastructure/rbac"
)

// RegisterLoginRoutes registers the public auth routes.
func (s *Server) RegisterLoginRoutes() {
	s.router.Post("/login", login.CreateLoginHandler(s.DB, s.SessionCache, s.UserCache))
	s.router.Post("/signup", login.SignupHandler(s.DB, s.SessionCache, s.UserCache))
	s.router.Post("/logout", login.LogoutHandler(s.DB, s.SessionCache))
}

// RegisterAdminRoutes registers admin-only routes.
func (s *Server) RegisterAdminRoutes(r chi.Router) chi.Router {
	s.Rbac.Add(rbac.RoleAdmin, "ADMIN_DASHBOARD_VIEW", http.MethodGet, "/app/admin/dashboard")
	r.Get("/admin/dashboard", admindashboard.DashboardQueryHandler(s.DB))
	return r
}

// RegisterFrontendRoutes registers the authenticated clinic routes.
func (s *Server) RegisterFrontendRoutes(r chi.Router) chi.Router {
	s.RegisterRoomRoutes(r)
	s.RegisterInventoryRoutes(r)
	s.RegisterReportRoutes(r)
	s.RegisterExportRoutes(r)

	s.Rbac.Add(rbac.RoleClinic, "PROFILE_VIEW", http.MethodGet, "/app/profile")
	r.Get("/profile", profilepage.ProfileQueryHandler(s.DB))
	s.Rbac.Add(rbac.RoleClinic, "PROFILE_EDIT", http.MethodPost, "/app/profile")
	r.Post("/profile", profilepage.UpdateProfileCommandHandler(s.DB))

	return r
}

func (s *Server) RegisterRoomRoutes(r chi.Router) {
	s.Rbac.Add(rbac.RoleClinic, "ROOMS_VIEW", http.MethodGet, "/app/api/rooms")
	r.Get("/api/rooms", roomspage.RoomsQueryHandler(s.DB))

	s.Rbac.Add(rbac.RoleClinic, "ROOM_CREATE", http.MethodPost, "/app/api/rooms")
	r.Post("/api/rooms", roomspage.CreateRoomCommandHandler(s.DB, s.Audit))

	s.Rbac.Add(rbac.RoleClinic, "ROOM_RENAME", http.MethodPost, "/app/api/rooms/*/rename")
	r.Post("/api/rooms/{roomID}/rename", roomspage.RenameRoomCommandHandler(s.DB, s.Audit))

	s.Rbac.Add(rbac.RoleClinic, "ROOM_MOVE", http.MethodPost, "/app/api/rooms/*/move")
	r.Post("/api/rooms/{roomID}/move", roomspage.MoveRoomCommandHandler(s.DB))

	s.Rbac.Add(rbac.RoleClinic, "ROOM_DELETE", http.MethodPost, "/app/api/rooms/*/delete")
	r.Post("/api/rooms/{roomID}/delete", roomspage.DeleteRoomCommandHandler(s.DB, s.Audit))

	s.Rbac.Add(rbac.RoleClinic, "BLUEPRINT_PRESETS_VIEW", http.MethodGet, "/app/api/blueprints/presets")
	r.Get("/api/blueprints/presets", roomspage.BlueprintPresetsQueryHandler())

	s.Rbac.Add(rbac.RoleClinic, "BLUEPRINT_SET", http.MethodPost, "/app/api/blueprints")
	r.Post("/api/blueprints", roomspage.SetBlueprintCommandHandler(s.DB))
}

func (s *Server) RegisterInventoryRoutes(r chi.Router) {
	s.Rbac.Add(rbac.RoleClinic, "INVENTORY_MASTER_VIEW", http.MethodGet, "/app/api/inventory")
	r.Get("/api/inventory", inventory.MasterListQueryHandler(s.DB))

	s.Rbac.Add(rbac.RoleClinic, "ITEM_QTY_ADJUST", http.MethodPost, "/app/api/rooms/*/items/*/qty")
	r.Post("/api/rooms/{roomID}/items/{itemID}/qty", inventory.AdjustQtyCommandHandler(s.DB, s.Audit))

	s.Rbac.Add(rbac.RoleClinic, "ITEM_DELETE", http.MethodPost, "/app/api/rooms/*/items/*/delete")
	r.Post("/api/rooms/{roomID}/items/{itemID}/delete", inventory.DeleteItemCommandHandler(s.DB, s.Audit))

	s.Rbac.Add(rbac.RoleClinic, "ITEM_TRANSFER", http.MethodPost, "/app/api/rooms/*/items/*/transfer")
	r.Post("/api/rooms/{roomID}/items/{itemID}/transfer", inventory.TransferItemCommandHandler(s.DB, s.Audit))

	s.Rbac.Add(rbac.RoleClinic, "STOCK_RECEIVE", http.MethodPost, "/app/api/rooms/*/receive")
	r.Post("/api/rooms/{roomID}/receive", receiving.ReceiveCommandHandler(s.DB, s.Audit))

	s.Rbac.Add(rbac.RoleClinic, "INTAKE_QR_VIEW", http.MethodGet, "/app/api/rooms/*/intake-qr.png")
	r.Get("/api/rooms/{roomID}/intake-qr.png", receiving.IntakeQRHandler(s.BaseURL))
}

func (s *Server) RegisterReportRoutes(r chi.Router) {
	s.Rbac.Add(rbac.RoleClinic, "ACTIVITY_VIEW", http.MethodGet, "/app/api/activity")
	r.Get("/api/activity", activity.ActivityQueryHandler(s.DB))

	s.Rbac.Add(rbac.RoleClinic, "HISTORY_VIEW", http.MethodGet, "/app/api/history")
	r.Get("/api/history", historypage.HistoryQueryHandler(s.DB))

	s.Rbac.Add(rbac.RoleClinic, "EXPIRY_VIEW", http.MethodGet, "/app/api/expiry")
	r.Get("/api/expiry", expirypage.ExpiryQueryHandler(s.DB))

	s.Rbac.Add(rbac.RoleClinic, "ANALYTICS_VIEW", http.MethodGet, "/app/api/analytics")
	r.Get("/api/analytics", analytics.AnalyticsQueryHandler(s.DB))
}

func (s *Server) RegisterExportRoutes(r chi.Router) {
	s.Rbac.Add(rbac.RoleClinic, "EXPORT_INVENTORY_CSV", http.MethodGet, "/app/exports/inventory.csv")
	r.Get("/exports/inventory.csv", exportspage.InventoryCSVHandler(s.DB))

	s.Rbac.Add(rbac.RoleClinic, "EXPORT_HISTORY_CSV", http.MethodGet, "/app/exports/history.csv")
	r.Get("/exports/history.csv", exportspage.HistoryCSVHandler(s.DB))

	s.Rbac.Add(rbac.RoleClinic, "EXPORT_INVENTORY_PDF", http.MethodGet, "/app/exports/inventory.pdf")
	r.Get("/exports/inventory.pdf", exportspage.InventoryPDFHandler(s.DB))
}
