package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"fitzone/internal/attendance"
	"fitzone/internal/auth"
	"fitzone/internal/booking"
	"fitzone/internal/config"
	"fitzone/internal/gymclass"
	"fitzone/internal/membership"
	"fitzone/internal/payment"
	"fitzone/internal/review"
	"fitzone/internal/trainer"
	"fitzone/internal/user"

	"github.com/gin-gonic/gin"
)

// Deps is everything the router needs. Services are built in main.
type Deps struct {
	Config    *config.Config
	Tokens    *auth.TokenManager
	Denylist  auth.Denylist
	Approvals auth.ApprovalLookup
	Health    Pinger

	// StaticDir is served under /uploads when avatars are stored locally.
	StaticDir string

	Users       user.Service
	Memberships membership.Service
	Classes     gymclass.Service
	Bookings    booking.Service
	Attendance  attendance.Service
	Payments    payment.Service
	Trainers    trainer.Service
	Reviews     review.Service
}

type Server struct {
	router *gin.Engine
	http   *http.Server
}

func New(d Deps) *Server {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		CORSMiddleware(d.Config.CORSOrigins),
		RateLimitMiddleware(d.Config.RateLimitRPS, d.Config.RateLimitBurst),
	)

	router.GET("/metrics", Metrics())
	SetupSwagger(router)
	if d.StaticDir != "" {
		router.Static("/uploads", d.StaticDir)
	}

	registerRoutes(&router.RouterGroup, d)
	registerRoutes(router.Group("/api"), d)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              ":" + d.Config.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks until the server stops. It returns nil after Shutdown.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func registerRoutes(rg *gin.RouterGroup, d Deps) {
	users := user.NewHandler(d.Users)
	memberships := membership.NewHandler(d.Memberships)
	classes := gymclass.NewHandler(d.Classes)
	bookings := booking.NewHandler(d.Bookings)
	attend := attendance.NewHandler(d.Attendance)
	payments := payment.NewHandler(d.Payments)
	trainers := trainer.NewHandler(d.Trainers)
	reviews := review.NewHandler(d.Reviews)

	authed := auth.AuthMiddleware(d.Tokens, d.Denylist)
	can := func(c auth.Capability) gin.HandlerFunc {
		return auth.RequireCapability(c, d.Approvals)
	}
	memberOnly := auth.RequireRole(auth.RoleMember)

	rg.GET("/health", Health(d.Health))

	public := rg.Group("/auth")
	{
		public.POST("/register", users.Register)
		public.POST("/login", users.Login)
		public.POST("/refresh", users.Refresh)
	}
	rg.GET("/membership/plans", memberships.ListPlans)
	rg.GET("/payment/methods", payments.ListMethods)
	rg.POST("/payment/callback", payments.Callback)
	rg.GET("/classes", classes.ListClasses)
	rg.GET("/classes/:id", classes.GetClass)
	rg.GET("/classes/:id/reviews", reviews.ListForClass)

	p := rg.Group("/", authed)
	{
		p.POST("/auth/logout", users.Logout)
		p.GET("/auth/me", users.Me)

		p.GET("/profile", users.Me)
		p.PUT("/profile", users.UpdateProfile)
		p.POST("/profile/change-password", users.ChangePassword)
		p.POST("/profile/avatar", users.UploadAvatar)

		p.GET("/membership/my", memberships.My)
		p.POST("/membership/subscribe", memberOnly, payments.Create)

		p.POST("/bookings", can(auth.CapBookClasses), bookings.Create)
		p.GET("/bookings/my", bookings.ListMine)
		p.GET("/bookings/:id", bookings.Get)
		p.DELETE("/bookings/:id", bookings.Cancel)

		p.POST("/payment/create", memberOnly, payments.Create)
		p.GET("/payment/history", payments.History)
		p.GET("/payment/:orderId/status", payments.Status)
		if d.Config.PaymentSimulationEnabled {
			p.POST("/payment/:orderId/simulate", payments.Simulate)
		}

		p.POST("/classes/:id/reviews", memberOnly, reviews.Create)
		p.GET("/reviews/my", reviews.ListMine)
		p.PUT("/reviews/:id", reviews.Update)
		p.DELETE("/reviews/:id", reviews.Delete)

		p.GET("/attendance/my", attend.ListMine)
	}

	staff := rg.Group("/", authed)
	{
		staff.POST("/classes", can(auth.CapManageClasses), classes.CreateClass)
		staff.PUT("/classes/:id", can(auth.CapManageClasses), classes.UpdateClass)
		staff.DELETE("/classes/:id", can(auth.CapManageClasses), classes.DeleteClass)
		staff.GET("/classes/:id/participants", can(auth.CapManageClasses), classes.Participants)

		staff.GET("/trainer/classes", can(auth.CapManageClasses), classes.TrainerClasses)
		staff.DELETE("/trainer/classes/:classId/members/:bookingId", can(auth.CapManageClasses), bookings.RemoveMember)
		staff.POST("/trainer/classes/:classId/attendance/:bookingId", can(auth.CapMarkAttendance), attend.MarkInClass)

		staff.POST("/attendance", can(auth.CapMarkAttendance), attend.Mark)
		staff.GET("/attendance", can(auth.CapMarkAttendance), attend.List)
	}

	admin := rg.Group("/", authed, auth.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/users", can(auth.CapManageUsers), users.ListUsers)
		admin.GET("/users/:id", can(auth.CapManageUsers), users.GetUser)
		admin.PUT("/users/:id", can(auth.CapManageUsers), users.UpdateUser)
		admin.DELETE("/users/:id", can(auth.CapManageUsers), users.DeleteUser)

		admin.GET("/members", memberships.ListActive)
		admin.POST("/members", memberships.Grant)
		admin.GET("/bookings", bookings.ListAll)

		admin.GET("/payment/all", can(auth.CapViewReports), payments.ListAll)
		admin.GET("/payment/report", can(auth.CapViewReports), payments.Report)

		admin.GET("/admin/trainers", can(auth.CapApproveTrainers), trainers.List)
		admin.POST("/admin/trainers/:id/approve", can(auth.CapApproveTrainers), trainers.Approve)
		admin.POST("/admin/trainers/:id/reject", can(auth.CapApproveTrainers), trainers.Reject)
	}
}
