// File: controllers/routes.go
package controllers

import (
	"github.com/gin-gonic/gin"

	"go-club-hub/metrics"
	"go-club-hub/middleware"
	"go-club-hub/services"
	"go-club-hub/store"
)

// Services bundles everything the handlers need.
type Services struct {
	Store         *store.Store
	RBAC          *services.RBAC
	Auth          *services.AuthService
	Clubs         *services.ClubService
	Members       *services.MemberService
	Roles         *services.RoleService
	Announcements *services.AnnouncementService
	Chat          *services.ChatService
	Notifications *services.NotificationService
	Admin         *services.AdminService
}

// NewServices wires the service layer on top of a store.
func NewServices(st *store.Store, limiter *services.RateLimiter) *Services {
	rbac := services.NewRBAC(st)
	notes := services.NewNotificationService(st)
	return &Services{
		Store:         st,
		RBAC:          rbac,
		Auth:          services.NewAuthService(st, limiter, notes),
		Clubs:         services.NewClubService(st, rbac, notes),
		Members:       services.NewMemberService(st, rbac),
		Roles:         services.NewRoleService(st, rbac),
		Announcements: services.NewAnnouncementService(st, rbac),
		Chat:          services.NewChatService(st, rbac, limiter),
		Notifications: notes,
		Admin:         services.NewAdminService(st),
	}
}

// RouteOptions carries the pieces of the router that live outside the
// service layer.
type RouteOptions struct {
	ApplicationURL string
	Throttle       *middleware.Throttle
	ChatFeed       gin.HandlerFunc
}

// RegisterRoutes mounts pages and the JSON API. The router must already carry
// the session middleware.
func RegisterRoutes(router *gin.Engine, svc *Services, opts RouteOptions) {
	pages := NewPageController(svc.Auth, svc.Clubs, svc.RBAC, svc.Store, opts.ApplicationURL)
	auth := NewAuthController(svc.Auth, svc.Clubs)
	clubs := NewClubController(svc.Clubs, opts.ApplicationURL)
	announcements := NewAnnouncementController(svc.Announcements)
	members := NewMemberController(svc.Members)
	roles := NewRoleController(svc.Roles)
	chat := NewChatController(svc.Chat, svc.Auth)
	notifications := NewNotificationController(svc.Notifications)
	admin := NewAdminController(svc.Admin, svc.Clubs)

	router.GET("/health", pages.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Public pages
	router.GET("/login", pages.ShowLoginPage)
	router.GET("/register", pages.ShowRegisterPage)
	router.GET("/join", pages.Join)

	// Protected pages
	protected := router.Group("/", middleware.AuthRequired(svc.Auth))
	{
		protected.GET("/", pages.Index)
		protected.GET("/no-clubs", pages.NoClubs)
		protected.GET("/manage-roles", pages.ManageRoles)
		protected.GET("/super-owner", middleware.SystemOwnerPage(), pages.SuperOwner)
	}

	api := router.Group("/api")
	if opts.Throttle != nil {
		api.Use(opts.Throttle.Middleware())
	}

	public := api.Group("/auth")
	{
		// login CSRF: clients fetch a token from any page before their first POST
		public.POST("/register", middleware.RequireCSRF(), auth.Register)
		public.POST("/login", middleware.RequireCSRF(), auth.Login)
		public.POST("/logout", auth.Logout)
	}

	secured := api.Group("", middleware.APIAuthRequired(svc.Auth), middleware.RequireCSRF())
	{
		secured.GET("/auth/check", auth.Check)
		secured.GET("/auth/my-clubs", auth.MyClubs)

		secured.POST("/clubs/switch", clubs.Switch)
		secured.POST("/clubs/requests", clubs.SubmitRequest)
		secured.POST("/clubs/join", clubs.Join)
		secured.GET("/clubs/:club_id/join-requests", clubs.JoinRequests)
		secured.POST("/clubs/join-requests/approve", clubs.ApproveJoin)
		secured.POST("/clubs/join-requests/reject", clubs.RejectJoin)
		secured.GET("/clubs/:club_id/qrcode", clubs.QRCode)

		secured.GET("/announcements", announcements.List)
		secured.POST("/announcements", announcements.Create)
		secured.PUT("/announcements", announcements.Update)
		secured.DELETE("/announcements", announcements.Delete)

		secured.GET("/members", members.List)
		secured.POST("/members/update-role", members.UpdateRole)
		secured.POST("/members/remove", members.Remove)

		secured.GET("/roles", roles.List)
		secured.POST("/roles", roles.Create)
		secured.GET("/roles/:role_id", roles.Get)
		secured.DELETE("/roles/:role_id", roles.Delete)
		secured.PUT("/roles/:role_id/permissions", roles.SetPermissions)

		secured.GET("/chat/rooms", chat.Rooms)
		secured.GET("/chat/messages", chat.Messages)
		secured.POST("/chat/send", chat.Send)
		if opts.ChatFeed != nil {
			secured.GET("/chat/ws", opts.ChatFeed)
		}

		secured.GET("/notifications", notifications.List)
		secured.GET("/notifications/unread-count", notifications.UnreadCount)
		secured.POST("/notifications/mark-read", notifications.MarkRead)
		secured.POST("/notifications/mark-all-read", notifications.MarkAllRead)
		secured.DELETE("/notifications/:id", notifications.Delete)
	}

	owner := secured.Group("/super-owner", middleware.SystemOwnerRequired())
	{
		owner.GET("/stats", admin.Stats)
		owner.GET("/clubs", admin.ListClubs)
		owner.GET("/users", admin.ListUsers)
		owner.GET("/pending-requests", admin.PendingRequests)
		owner.POST("/approve-club", admin.ApproveClub)
		owner.POST("/reject-club", admin.RejectClub)
		owner.POST("/deactivate-user", admin.DeactivateUser)
		owner.POST("/activate-user", admin.ActivateUser)
		owner.POST("/delete-club", admin.DeleteClub)
	}
}
