package routes

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"nexus_pix/internal/adapter/http/middleware"
	"nexus_pix/internal/config"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	limiterSweepInterval = time.Minute
	limiterMaxIdle       = 10 * time.Minute
)

// Run will start the server and block until SIGINT or SIGTERM.
func Run() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, cleanup := buildDependencies(ctx, cfg)
	defer cleanup()

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           NewRouter(ctx, cfg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[pix][server] listening port=%d gateway=%s", cfg.Port, cfg.Gateway)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to startup the application: %v", err.Error())
		}
	}()

	<-ctx.Done()
	log.Printf("[pix][server] shutting down grace=%s", cfg.ShutdownGracePeriod)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[pix][server] shutdown failed err=%v", err)
	}
}

// NewRouter registers every route. ctx bounds background work such as the
// rate limiter sweeper.
func NewRouter(ctx context.Context, cfg config.Config, deps Dependencies) *gin.Engine {
	router := gin.New()
	setMiddlewares(router)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	var limiter *middleware.IPRateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		go limiter.RunSweeper(ctx, limiterSweepInterval, limiterMaxIdle)
	}

	addPingRoutes(&router.RouterGroup)
	addPixRoutes(&router.RouterGroup, deps, limiter)
	addWebhookRoutes(&router.RouterGroup, deps)
	return router
}

func setMiddlewares(router *gin.Engine) {
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}
