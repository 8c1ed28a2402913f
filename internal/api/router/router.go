package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AlineIradukunda/dusangire-backend/config"
	"github.com/AlineIradukunda/dusangire-backend/internal/api/handler"
	"github.com/AlineIradukunda/dusangire-backend/internal/api/middleware"
	"github.com/AlineIradukunda/dusangire-backend/pkg/jwt"
	"github.com/AlineIradukunda/dusangire-backend/pkg/redis"
)

const maxBodyBytes = 8 << 20

// New builds the gin engine with all routes and middleware attached.
func New(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		loginLimit := middleware.RateLimit(rdb, 10, time.Minute)
		auth.POST("/login", loginLimit, h.Auth.Login)
		auth.POST("/refresh", loginLimit, h.Auth.Refresh)

		authed := auth.Group("")
		authed.Use(middleware.JWTAuth(jwtMgr, rdb))
		authed.POST("/logout", h.Auth.Logout)
		authed.GET("/me", h.Auth.Me)
	}

	mutator := middleware.RoleAuth(jwt.RoleAdmin, jwt.RoleSuperuser)
	superOnly := middleware.RoleAuth(jwt.RoleSuperuser)

	schools := v1.Group("/schools")
	{
		// Reads are public; claims are still injected when a token is sent.
		schools.Use(middleware.OptionalJWTAuth(jwtMgr, rdb))
		schools.GET("", h.School.List)

		authed := schools.Group("")
		authed.Use(middleware.JWTAuth(jwtMgr, rdb))
		authed.GET("/deleted", superOnly, h.School.ListDeleted)
		// Registration and edits admit any authenticated account; only the
		// delete lifecycle is role-gated.
		authed.POST("", h.School.Create)
		authed.PUT("/:id", h.School.Update)
		authed.PUT("/:id/delete", mutator, h.School.RequestDelete)
		authed.PUT("/:id/recover", mutator, h.School.Recover)
		authed.DELETE("/:id/confirm", superOnly, h.School.ConfirmDelete)

		schools.GET("/:id", h.School.Get)
	}

	transfers := v1.Group("/transfers")
	{
		transfers.Use(middleware.OptionalJWTAuth(jwtMgr, rdb))
		transfers.GET("", h.Transfer.List)
		// Donation intake is open so donors can record transfers without an
		// account.
		transfers.POST("", h.Transfer.Create)

		authed := transfers.Group("")
		authed.Use(middleware.JWTAuth(jwtMgr, rdb))
		authed.GET("/deleted", superOnly, h.Transfer.ListDeleted)
		authed.POST("/upload", mutator, h.Transfer.Upload)
		authed.PUT("/:id", mutator, h.Transfer.Update)
		authed.PUT("/:id/delete", mutator, h.Transfer.RequestDelete)
		authed.PUT("/:id/recover", mutator, h.Transfer.Recover)
		authed.DELETE("/:id/confirm", superOnly, h.Transfer.ConfirmDelete)

		transfers.GET("/:id", h.Transfer.Get)
	}

	v1.POST("/distribute", middleware.JWTAuth(jwtMgr, rdb), mutator, h.Distribution.Create)
	v1.GET("/transaction-summary", h.Distribution.Summary)

	distributions := v1.Group("/distributions")
	distributions.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		distributions.GET("", h.Distribution.List)
		distributions.GET("/deleted", superOnly, h.Distribution.ListDeleted)
		distributions.GET("/:id", h.Distribution.Get)
		distributions.PUT("/:id/delete", mutator, h.Distribution.RequestDelete)
		distributions.PUT("/:id/recover", mutator, h.Distribution.Recover)
		distributions.DELETE("/:id/confirm", superOnly, h.Distribution.ConfirmDelete)
	}

	reports := v1.Group("/reports")
	reports.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		reports.GET("", h.Report.List)
		reports.POST("/generate", h.Report.Generate)
	}

	v1.GET("/admins", middleware.JWTAuth(jwtMgr, rdb), superOnly, h.Auth.ListAdmins)

	return r
}
