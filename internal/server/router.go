package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hyroxbox-directory/internal/handler"
	"hyroxbox-directory/internal/middleware"
	"hyroxbox-directory/internal/web"
)

// Deps are the services the router wires into handlers
type Deps struct {
	Regions       handler.RegionStore
	Boxes         handler.BoxStore
	Accounts      handler.Accounts
	Authenticator middleware.Authenticator
	CORSOrigins   []string
	SecureCookies bool
	Logger        *zap.Logger
}

// NewRouter builds the gin engine serving the directory, the admin console and the JSON API
func NewRouter(deps Deps) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(middleware.RequestID(), middleware.Logger(deps.Logger), middleware.Recovery(deps.Logger))

	corsConfig := cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{"http://localhost:8080"}
	}
	router.Use(cors.New(corsConfig))

	router.StaticFS("/static", web.Static())
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	listingHandler := handler.NewListingHandler(deps.Boxes, deps.Regions, deps.Logger)
	regionHandler := handler.NewRegionHandler(deps.Regions, deps.Logger)
	boxHandler := handler.NewBoxHandler(deps.Boxes, deps.Logger)
	adminHandler := handler.NewAdminHandler(deps.Boxes, deps.Regions, deps.Logger)
	authHandler := handler.NewAuthHandler(deps.Accounts, deps.SecureCookies, deps.Logger)

	// Public routes
	router.GET("/", listingHandler.Index)
	router.GET("/auth/signup", authHandler.SignUpPage)
	router.POST("/auth/signup", authHandler.SignUp)
	router.GET("/auth/login", authHandler.LoginPage)
	router.POST("/auth/login", authHandler.Login)
	router.POST("/auth/logout", authHandler.Logout)

	api := router.Group("/api")
	{
		api.GET("/boxes", boxHandler.ListBoxes)
		api.GET("/boxes/:id", boxHandler.GetBox)
		api.GET("/regions", regionHandler.ListRegions)
		api.GET("/regions/:id", regionHandler.GetRegion)
	}

	// Admin routes
	guard := middleware.AdminAuth(deps.Authenticator)

	pages := router.Group("/admin", guard)
	{
		pages.GET("", adminHandler.Dashboard)
		pages.GET("/regions", adminHandler.RegionsPage)
		pages.GET("/boxes", adminHandler.BoxesPage)
	}

	admin := api.Group("/admin", guard)
	{
		admin.GET("/stats", adminHandler.GetStats)

		admin.GET("/regions", regionHandler.ListRegionsWithCounts)
		admin.POST("/regions", regionHandler.CreateRegion)
		admin.PUT("/regions/:id", regionHandler.UpdateRegion)
		admin.DELETE("/regions/:id", regionHandler.DeleteRegion)

		admin.GET("/boxes", boxHandler.ListAllBoxes)
		admin.POST("/boxes", boxHandler.CreateBox)
		admin.PUT("/boxes/:id", boxHandler.UpdateBox)
		admin.DELETE("/boxes/:id", boxHandler.DeleteBox)
	}

	return router, nil
}
