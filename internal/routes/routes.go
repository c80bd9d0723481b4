package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/trucking-desk/internal/audit"
	"github.com/BruksfildServices01/trucking-desk/internal/auth"
	"github.com/BruksfildServices01/trucking-desk/internal/config"
	"github.com/BruksfildServices01/trucking-desk/internal/domain/access"
	domainIdentity "github.com/BruksfildServices01/trucking-desk/internal/domain/identity"
	domainOrder "github.com/BruksfildServices01/trucking-desk/internal/domain/order"
	"github.com/BruksfildServices01/trucking-desk/internal/handlers"
	infraRepo "github.com/BruksfildServices01/trucking-desk/internal/infra/repository"
	"github.com/BruksfildServices01/trucking-desk/internal/middleware"
	ucIdentity "github.com/BruksfildServices01/trucking-desk/internal/usecase/identity"
	ucOrder "github.com/BruksfildServices01/trucking-desk/internal/usecase/order"
	"github.com/BruksfildServices01/trucking-desk/internal/validators"
)

// Deps carries the singletons built in main.
type Deps struct {
	DB        *gorm.DB
	Config    *config.Config
	Logger    *zap.Logger
	Blacklist auth.Blacklist
	Audit     audit.Sink
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	cfg := deps.Config
	db := deps.DB
	log := deps.Logger

	validators.Register()

	// ======================================================
	// INFRA
	// ======================================================
	userRepo := infraRepo.NewUserGormRepository(db)
	orderRepo := infraRepo.NewOrderGormRepository(db)
	notificationRepo := infraRepo.NewNotificationGormRepository(db)

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, deps.Blacklist)
	referrals := domainIdentity.NewReferralGenerator(cfg.ReferralMaxAttempts)
	policy := domainOrder.TransitionPolicy{Strict: cfg.StrictOrderTransitions}

	// ======================================================
	// USE CASES
	// ======================================================
	registerUC := ucIdentity.NewRegister(userRepo, referrals, tokens, deps.Audit)
	sessionsUC := ucIdentity.NewSessions(userRepo, tokens, deps.Audit, cfg.Timezone)
	profilesUC := ucIdentity.NewProfiles(userRepo, deps.Audit)

	createOrderUC := ucOrder.NewCreateOrder(orderRepo, deps.Audit)
	listOrdersUC := ucOrder.NewListOrders(orderRepo)
	getOrderUC := ucOrder.NewGetOrder(orderRepo)
	updateOrderUC := ucOrder.NewUpdateOrder(orderRepo, policy, deps.Audit, notificationRepo, log, cfg.Timezone)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(registerUC, sessionsUC, log)
	userHandler := handlers.NewUserHandler(profilesUC, registerUC, cfg.PageSize, log)
	locationHandler := handlers.NewDriverLocationHandler(db, log, cfg.Timezone)
	orderHandler := handlers.NewOrderHandler(createOrderUC, listOrdersUC, getOrderUC, updateOrderUC, cfg.PageSize, log)
	catalogHandler := handlers.NewCatalogHandler(db, cfg.PageSize, log)
	subscriptionHandler := handlers.NewSubscriptionHandler(db, deps.Audit, cfg.PageSize, log, cfg.Timezone)
	reviewHandler := handlers.NewReviewHandler(db, deps.Audit, cfg.PageSize, log)
	notificationHandler := handlers.NewNotificationHandler(db, notificationRepo, cfg.PageSize, log)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, cfg.PageSize, log)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		// ------------------------------
		// AUTH (public)
		// ------------------------------
		api.POST("/auth/register/", authHandler.Register)
		api.POST("/auth/login/", authHandler.Login)
		api.POST("/auth/token/", authHandler.Login)
		api.POST("/auth/token/refresh/", authHandler.Refresh)
		api.POST("/auth/token/verify/", authHandler.Verify)

		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(tokens, middleware.GormUserLoader(db)))
		{
			admin := middleware.RequireAdmin()
			catalogCreate := middleware.CatalogWrite(access.ActionCreate)
			catalogUpdate := middleware.CatalogWrite(access.ActionUpdate)
			driver := middleware.RequireRole(access.RoleDriver)

			// ------------------------------
			// ACCOUNT
			// ------------------------------
			secured.POST("/auth/logout/", authHandler.Logout)
			secured.GET("/auth/profile/", userHandler.Profile)
			secured.PATCH("/auth/profile/", userHandler.UpdateProfile)

			secured.GET("/auth/location/", driver, locationHandler.Get)
			secured.PUT("/auth/location/", driver, locationHandler.Put)

			secured.GET("/auth/users/", userHandler.List)
			secured.POST("/auth/users/", userHandler.Create)
			secured.GET("/auth/users/me/", userHandler.Me)
			secured.GET("/auth/users/:id/", userHandler.Get)
			secured.PATCH("/auth/users/:id/", userHandler.Update)

			// ------------------------------
			// ORDERS
			// ------------------------------
			secured.GET("/cargo/requests/", orderHandler.List)
			secured.POST("/cargo/requests/", orderHandler.Create)
			secured.GET("/cargo/requests/:id/", orderHandler.Get)
			secured.PATCH("/cargo/requests/:id/", orderHandler.Update)

			// ------------------------------
			// CATALOG
			// ------------------------------
			secured.GET("/cargo/types/", catalogHandler.ListCargoTypes)
			secured.POST("/cargo/types/", catalogCreate, catalogHandler.CreateCargoType)
			secured.GET("/cargo/types/:id/", catalogHandler.GetCargoType)
			secured.PATCH("/cargo/types/:id/", catalogUpdate, catalogHandler.UpdateCargoType)

			secured.GET("/locations/", catalogHandler.ListLocations)
			secured.POST("/locations/", catalogCreate, catalogHandler.CreateLocation)
			secured.GET("/locations/:id/", catalogHandler.GetLocation)
			secured.PATCH("/locations/:id/", catalogUpdate, catalogHandler.UpdateLocation)

			secured.GET("/core/tariffs/", catalogHandler.ListTariffs)
			secured.POST("/core/tariffs/", catalogCreate, catalogHandler.CreateTariff)
			secured.GET("/core/tariffs/:id/", catalogHandler.GetTariff)
			secured.PATCH("/core/tariffs/:id/", catalogUpdate, catalogHandler.UpdateTariff)

			// ------------------------------
			// SUBSCRIPTIONS
			// ------------------------------
			secured.GET("/subscriptions/plans/", subscriptionHandler.ListPlans)
			secured.POST("/subscriptions/plans/", catalogCreate, subscriptionHandler.CreatePlan)
			secured.GET("/subscriptions/plans/:id/", subscriptionHandler.GetPlan)
			secured.PATCH("/subscriptions/plans/:id/", catalogUpdate, subscriptionHandler.UpdatePlan)

			secured.GET("/subscriptions/", subscriptionHandler.List)
			secured.POST("/subscriptions/", admin, subscriptionHandler.Create)
			secured.GET("/subscriptions/:id/", subscriptionHandler.Get)
			secured.PATCH("/subscriptions/:id/", admin, subscriptionHandler.Update)

			// ------------------------------
			// REVIEWS & NOTIFICATIONS
			// ------------------------------
			secured.GET("/reviews/", reviewHandler.List)
			secured.POST("/reviews/", reviewHandler.Create)
			secured.GET("/reviews/:id/", reviewHandler.Get)

			secured.GET("/notifications/", notificationHandler.List)
			secured.POST("/notifications/", admin, notificationHandler.Create)
			secured.POST("/notifications/read-all/", notificationHandler.MarkAllRead)
			secured.GET("/notifications/:id/", notificationHandler.Get)
			secured.PATCH("/notifications/:id/", notificationHandler.Update)

			secured.GET("/audit-logs/", admin, auditLogsHandler.List)
		}
	}
}
