package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps carries the services the handlers depend on.
type Deps struct {
	CartSvc      cartService
	SelectionSvc selectionService
	CheckoutSvc  checkoutService
	RewardsSvc   rewardsService
}

// buildRouter wires routes for the checkout API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	carts := router.Group("/carts/:cartId")
	{
		carts.GET("", getCartHandler(deps))
		carts.PATCH("/items/:itemId", updateItemHandler(deps))
		carts.POST("/selection", selectAllHandler(deps))
		carts.POST("/quote", quoteHandler(deps))
		carts.GET("/rewards", rewardsHandler(deps))
		carts.POST("/checkout", checkoutHandler(deps))
	}

	return router
}
