// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"github.com/your-org/bookstore-backend/internal/domain/checkout"
	"github.com/your-org/bookstore-backend/internal/domain/session"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/handlers"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
	"github.com/your-org/bookstore-backend/internal/pkg/auth"
)

// Dependencies are the services the routes are served by
type Dependencies struct {
	Config   *config.Config
	Catalog  *catalog.Service
	Checkout *checkout.Service
	Sessions *session.Manager
	JWT      *auth.JWTManager
}

// SetupRoutes registers every API route under rg
func SetupRoutes(rg *gin.RouterGroup, deps Dependencies) {
	SetupCatalogRoutes(rg, deps)

	sessions := rg.Group("")
	sessions.Use(middleware.Session(deps.Sessions, deps.JWT, deps.Config.Session))

	SetupAuthRoutes(sessions, deps)
	SetupCartRoutes(sessions, deps)
	SetupCheckoutRoutes(sessions, deps)
}

// SetupCatalogRoutes sets up book browsing routes
func SetupCatalogRoutes(rg *gin.RouterGroup, deps Dependencies) {
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog)

	books := rg.Group("/books")
	{
		books.GET("", catalogHandler.ListBooks)
		books.GET("/:id", catalogHandler.GetBook)
		books.GET("/:id/reviews", catalogHandler.GetReviews)
	}

	rg.GET("/authors", catalogHandler.ListAuthors)
	rg.GET("/categories", catalogHandler.ListCategories)
	rg.GET("/publishers", catalogHandler.ListPublishers)
	rg.GET("/search/options", catalogHandler.SearchOptions)
	rg.GET("/library", catalogHandler.LibraryInfo)

	images := rg.Group("/images")
	{
		images.GET("/landing", catalogHandler.LandingImage)
		images.GET("/carousel/:index", catalogHandler.CarouselImage)
	}
}

// SetupAuthRoutes sets up sign-in and profile routes
func SetupAuthRoutes(rg *gin.RouterGroup, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.JWT)

	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/profile", authHandler.GetProfile)
		authGroup.PUT("/profile", authHandler.UpdateProfile)
	}
}

// SetupCartRoutes sets up cart routes. Adding is open to anonymous
// sessions so the book can be kept until sign-in.
func SetupCartRoutes(rg *gin.RouterGroup, deps Dependencies) {
	cartHandler := handlers.NewCartHandler(deps.Catalog, deps.Config.Checkout.Currency)

	cart := rg.Group("/cart")
	{
		cart.POST("/items", cartHandler.AddItem)

		signedIn := cart.Group("")
		signedIn.Use(middleware.RequireSignedIn(session.RouteCart))
		{
			signedIn.GET("", cartHandler.GetCart)
			signedIn.PUT("/items/:id", cartHandler.UpdateItem)
			signedIn.DELETE("/items/:id", cartHandler.RemoveItem)
			signedIn.DELETE("", cartHandler.ClearCart)
		}
	}
}

// SetupCheckoutRoutes sets up checkout routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, deps Dependencies) {
	checkoutHandler := handlers.NewCheckoutHandler(deps.Checkout)

	checkoutGroup := rg.Group("/checkout")
	checkoutGroup.Use(middleware.RequireSignedIn(session.RouteCart))
	{
		checkoutGroup.GET("/form", checkoutHandler.GetForm)
		checkoutGroup.PUT("/form", checkoutHandler.SaveForm)
		checkoutGroup.POST("/continue", checkoutHandler.Continue)
		checkoutGroup.POST("/confirm", checkoutHandler.Confirm)
		checkoutGroup.GET("/order", checkoutHandler.LastOrder)
		checkoutGroup.GET("/receipt", checkoutHandler.Receipt)
	}
}
