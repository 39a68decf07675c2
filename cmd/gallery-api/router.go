package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"

	"github.com/mkimathi/gallery-api/internal/artwork"
	"github.com/mkimathi/gallery-api/internal/auth"
	"github.com/mkimathi/gallery-api/internal/config"
	"github.com/mkimathi/gallery-api/internal/exhibition"
	"github.com/mkimathi/gallery-api/internal/httpx"
	"github.com/mkimathi/gallery-api/internal/message"
	"github.com/mkimathi/gallery-api/internal/mpesa"
	"github.com/mkimathi/gallery-api/internal/order"
)

type deps struct {
	cfg         config.Config
	rdb         *rd.Client
	auth        *auth.Service
	artworks    artwork.Repository
	exhibitions exhibition.Repository
	messages    message.Repository
	store       order.Store
	mpesa       *mpesa.Orchestrator
}

func newRouter(d deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.CORS(d.cfg.CORSOrigins))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	api := r.Group("/api")

	// public
	api.POST("/register", registerHandler(d.auth))
	api.POST("/login", loginHandler(d.auth))
	api.POST("/admin-login", adminLoginHandler(d.auth))
	api.GET("/artworks", listArtworksHandler(d.artworks))
	api.GET("/artworks/:id", getArtworkHandler(d.artworks))
	api.GET("/exhibitions", listExhibitionsHandler(d.exhibitions))
	api.GET("/exhibitions/:id", getExhibitionHandler(d.exhibitions))
	api.POST("/contact", contactHandler(d.messages))
	// the gateway posts here without our tokens
	api.POST("/mpesa/callback", callbackHandler(d.mpesa))

	// signed-in users
	authed := api.Group("", httpx.RequireAuth(d.auth, false))
	authed.POST("/mpesa/stkpush",
		httpx.RateLimit(d.rdb, d.cfg.PushRateLimit, d.cfg.PushRateWindow),
		stkPushHandler(d.mpesa))
	authed.GET("/mpesa/status/:id", paymentStatusHandler(d.mpesa))
	authed.GET("/users/:id/orders", userOrdersHandler(d.store))

	// admin
	admin := api.Group("", httpx.RequireAuth(d.auth, true))
	admin.POST("/artworks", createArtworkHandler(d.artworks))
	admin.PUT("/artworks/:id", updateArtworkHandler(d.artworks))
	admin.DELETE("/artworks/:id", deleteArtworkHandler(d.artworks))
	admin.POST("/exhibitions", createExhibitionHandler(d.exhibitions))
	admin.GET("/orders", listOrdersHandler(d.store))
	admin.GET("/tickets", listTicketsHandler(d.store))
	admin.GET("/messages", listMessagesHandler(d.messages))
	admin.PUT("/messages/:id", updateMessageHandler(d.messages))

	return r
}
