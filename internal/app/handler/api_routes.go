package handler

import (
	"kidsevents/internal/app/middleware"
	"kidsevents/internal/app/role"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterAPIRoutes регистрирует все REST API маршруты с авторизацией
func (h *APIHandler) RegisterAPIRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware, loginLimiter, trackingLimiter *middleware.RateLimiter, metrics *middleware.Metrics) {
	anyUser := authMiddleware.WithAuthCheck(role.Customer, role.Provider, role.Admin)
	providerOrAdmin := authMiddleware.WithAuthCheck(role.Provider, role.Admin)
	customerOnly := authMiddleware.WithAuthCheck(role.Customer)
	adminOnly := authMiddleware.WithAuthCheck(role.Admin)

	api := router.Group("/api")

	// ============ Аутентификация ============
	auth := api.Group("/auth")
	{
		auth.POST("/register", loginLimiter.Handler(), h.AuthHandler.RegisterUser)
		auth.POST("/login", loginLimiter.Handler(), h.AuthHandler.LoginUser)
		auth.POST("/logout", anyUser, h.AuthHandler.LogoutUser)
		auth.GET("/me", anyUser, h.AuthHandler.GetMe)
		auth.PUT("/me", anyUser, h.AuthHandler.UpdateMe)
	}

	// ============ Профили исполнителей ============
	profiles := api.Group("/profiles")
	{
		profiles.GET("", h.GetProfiles)
		profiles.GET("/me", providerOrAdmin, h.GetMyProfile)
		profiles.PUT("/me", providerOrAdmin, h.UpdateMyProfile)
		profiles.POST("/me/avatar", providerOrAdmin, h.UploadAvatar)
		profiles.POST("", authMiddleware.WithAuthCheck(role.Provider), h.CreateProfile)
		profiles.GET("/:id", authMiddleware.OptionalAuth(), h.GetProfile)
		profiles.GET("/:id/characters", h.GetCharacters)
		profiles.GET("/:id/quests", h.GetQuestPrograms)
	}

	// ============ Услуги ============
	services := api.Group("/services")
	{
		services.GET("", h.GetServices)
		services.GET("/:id", authMiddleware.OptionalAuth(), h.GetService)
		services.POST("", providerOrAdmin, h.CreateService)
		services.PUT("/:id", providerOrAdmin, h.UpdateService)
		services.DELETE("/:id", providerOrAdmin, h.DeleteService)
		services.POST("/:id/image", providerOrAdmin, h.UploadServiceImage)
	}

	// ============ Персонажи и квесты ============
	characters := api.Group("/characters", providerOrAdmin)
	{
		characters.POST("", h.CreateCharacter)
		characters.PUT("/:id", h.UpdateCharacter)
		characters.DELETE("/:id", h.DeleteCharacter)
		characters.POST("/:id/image", h.UploadCharacterImage)
	}

	quests := api.Group("/quests", providerOrAdmin)
	{
		quests.POST("", h.CreateQuestProgram)
		quests.PUT("/:id", h.UpdateQuestProgram)
		quests.DELETE("/:id", h.DeleteQuestProgram)
	}

	// ============ Корзина ============
	cart := api.Group("/cart", customerOnly)
	{
		cart.GET("", h.GetCart)
		cart.POST("/items", h.AddToCart)
		cart.PUT("/items/:id", h.UpdateCartItem)
		cart.DELETE("/items/:id", h.RemoveCartItem)
	}

	// ============ Заявки ============
	orders := api.Group("/orders")
	{
		orders.GET("", anyUser, h.GetOrders)
		orders.GET("/:id", anyUser, h.GetOrder)
		orders.GET("/:id/quote", customerOnly, h.QuoteOrder)
		orders.POST("/:id/checkout", customerOnly, h.CheckoutOrder)
		orders.DELETE("/:id", customerOnly, h.DeleteOrder)
		orders.PUT("/:id/stage", providerOrAdmin, h.UpdateOrderStage)
	}

	// ============ Рекламные кампании ============
	campaigns := api.Group("/campaigns")
	{
		campaigns.GET("/promoted", h.GetPromoted)
		campaigns.POST("/:id/impression", trackingLimiter.Handler(), h.RecordImpression)
		campaigns.POST("/:id/click", trackingLimiter.Handler(), h.RecordClick)

		campaigns.GET("", providerOrAdmin, h.GetCampaigns)
		campaigns.POST("", providerOrAdmin, h.CreateCampaign)
		campaigns.GET("/:id", providerOrAdmin, h.GetCampaign)
		campaigns.PUT("/:id", providerOrAdmin, h.UpdateCampaign)
		campaigns.DELETE("/:id", providerOrAdmin, h.DeleteCampaign)
		campaigns.POST("/:id/activate", providerOrAdmin, h.ActivateCampaign)
		campaigns.POST("/:id/pause", providerOrAdmin, h.PauseCampaign)
	}

	// ============ AI ============
	aiProviders := api.Group("/ai-providers", adminOnly)
	{
		aiProviders.GET("", h.GetAIProviders)
		aiProviders.POST("", h.CreateAIProvider)
		aiProviders.PUT("/:id", h.UpdateAIProvider)
		aiProviders.DELETE("/:id", h.DeleteAIProvider)
		aiProviders.POST("/:id/default", h.SetDefaultAIProvider)
		aiProviders.POST("/:id/test", h.TestAIProvider)
	}

	aiGateway := api.Group("/ai", anyUser)
	{
		aiGateway.POST("/chat", h.Chat)
		aiGateway.POST("/embeddings", h.Embeddings)
		aiGateway.POST("/describe-service", providerOrAdmin, h.DescribeService)
	}

	// ============ Аналитика ============
	analytics := api.Group("/analytics", providerOrAdmin)
	{
		analytics.GET("/provider", h.GetProviderAnalytics)
		analytics.GET("/provider/export", h.ExportProviderOrders)
	}

	api.GET("/images/*object", h.GetImage)

	// Служебные эндпоинты
	router.GET("/ping", h.Ping)
	if metrics != nil {
		router.GET("/metrics", metrics.Expose())
	}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
