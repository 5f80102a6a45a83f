package handlers

import (
	"net/http"
	"path/filepath"

	"solarmon/internal/logger"
	"solarmon/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to services and logging.
type Handler struct {
	services    *service.Service
	log         *logger.Logger
	hub         *hub
	firmwareDir string
}

// NewHandler constructs the HTTP handler. firmwareDir is where the latest
// firmware binary is looked up for OTA downloads.
func NewHandler(services *service.Service, log *logger.Logger, firmwareDir string) *Handler {
	return &Handler{
		services:    services,
		log:         log,
		hub:         newHub(),
		firmwareDir: firmwareDir,
	}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// devices and dashboards connect from anywhere
	router.Use(cors.Default())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/", h.root)
	router.GET("/health", h.health)

	api := router.Group("/api")
	{
		api.POST("/data", h.postData)
		api.GET("/data", h.getLatest)
		api.GET("/data/range", h.getRange)
		api.GET("/data/historical", h.getHistorical)
		api.GET("/esps", h.listDevices)
		api.POST("/prepare-ota", h.prepareOTA)
		api.POST("/reset-device", h.resetDevice)
	}

	router.GET("/firmware/latest.bin", h.downloadFirmware)

	// WebSocket push channel, same port
	router.GET("/ws", h.wsConnect)

	return router
}

// @Summary      Liveness probe
// @Tags         system
// @Produce      plain
// @Success      200  {string}  string
// @Router       / [get]
func (h *Handler) root(c *gin.Context) {
	c.String(http.StatusOK, "Server is running!")
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Download latest firmware image
// @Tags         devices
// @Produce      octet-stream
// @Success      200  {file}  binary
// @Router       /firmware/latest.bin [get]
func (h *Handler) downloadFirmware(c *gin.Context) {
	c.File(filepath.Join(h.firmwareDir, "latest.bin"))
}
