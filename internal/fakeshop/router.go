package fakeshop

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookie = "PHPSESSION"
	emailKey      = "fakeshop.email"
)

// buildRouter wires the subset of the shop API the client uses.
func buildRouter(logger *slog.Logger, store *Store) *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:    []string{"Authorization", "Content-Type", "Accept", "x-origin", "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))

	h := &handlers{store: store, logger: logger}

	router.GET("/healthz", healthHandler)
	router.POST("/services/frontend-service/login", h.login)
	router.GET("/services/frontend-service/autocomplete-suggestion", h.suggest)
	router.GET("/api/v1/products/card", h.productCards)

	authed := router.Group("/", authMiddleware(store))
	authed.GET("/services/frontend-service/v2/cart-review/check-cart", h.checkCart)
	authed.PUT("/services/frontend-service/v2/cart-review/item/:orderFieldId", h.setQuantity)
	authed.POST("/api/v1/cart/item", h.addCartItem)
	authed.GET("/api/v1/components/shopping-lists", h.listIDs)
	authed.GET("/api/v2/shopping-lists/id/:id", h.showList)
	authed.POST("/api/v1/shopping-lists", h.createList)
	authed.DELETE("/api/v1/shopping-lists/:id", h.deleteList)
	authed.GET("/services/frontend-service/v2/user-profile/orders", h.orders)
	authed.GET("/services/frontend-service/v2/orders/:number", h.order)

	return router
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"request_id", c.GetHeader("X-Request-ID"),
			"elapsed", time.Since(start).Truncate(time.Microsecond),
		)
	}
}

// authMiddleware accepts a bearer token or the session cookie.
func authMiddleware(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		} else if cookie, err := c.Cookie(sessionCookie); err == nil {
			token = cookie
		}
		email, ok := store.Authenticate(token)
		if token == "" || !ok {
			abortWithError(c, http.StatusUnauthorized, "Not logged in")
			return
		}
		c.Set(emailKey, email)
		c.Next()
	}
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"status":   status,
		"message":  message,
		"messages": []string{message},
	})
}
