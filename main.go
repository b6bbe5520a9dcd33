// main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"go-club-hub/config"
	"go-club-hub/controllers"
	"go-club-hub/logger"
	"go-club-hub/metrics"
	"go-club-hub/middleware"
	"go-club-hub/services"
	"go-club-hub/store"
	"go-club-hub/websocket"
)

// App holds the wired application.
type App struct {
	Config    *config.Config
	Store     *store.Store
	Services  *controllers.Services
	Hub       *websocket.Hub
	Throttle  *middleware.Throttle
	Scheduler *services.CleanupScheduler
	Router    *gin.Engine
}

// templatesDir resolves templates next to this file, as the binary may run
// from anywhere.
func templatesDir() string {
	_, b, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(b), "templates")
}

// newRouter builds the gin engine with sessions, security headers, metrics and
// the routes.
func newRouter(cfg *config.Config, svc *controllers.Services, hub *websocket.Hub, throttle *middleware.Throttle, templates string) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	router.Use(gin.Logger())

	cookieStore := cookie.NewStore([]byte(cfg.Session.Secret))
	cookieStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.LifetimeSeconds,
		HttpOnly: true,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(cfg.Session.Name, cookieStore))
	router.Use(middleware.Recovery())
	router.Use(metrics.GinMiddleware())

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("Referrer-Policy", "same-origin")
		c.Next()
	})

	if templates != "" {
		router.LoadHTMLGlob(filepath.Join(templates, "*.html"))
		router.Static("/static", filepath.Join(filepath.Dir(templates), "static"))
	}

	chat := websocket.NewHandler(hub, svc.Chat, cfg.ApplicationURL)
	controllers.RegisterRoutes(router, svc, controllers.RouteOptions{
		ApplicationURL: cfg.ApplicationURL,
		Throttle:       throttle,
		ChatFeed:       chat.ServeChat,
	})
	return router, nil
}

// newApp opens the store and wires services, the chat hub and the router.
func newApp(ctx context.Context, cfg *config.Config, templates string) (*App, error) {
	st, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	limiter := services.NewRateLimiter(st,
		services.WithWindow(cfg.RateLimit.WindowSeconds),
		services.WithFailOpen(cfg.RateLimit.FailOpen),
		services.WithCleanupProbability(cfg.RateLimit.CleanupProbability),
	)
	svc := controllers.NewServices(st, limiter)

	if cfg.Owner.Email != "" {
		if _, _, err := svc.Auth.EnsureSystemOwner(ctx, cfg.Owner.Email, cfg.Owner.Password); err != nil {
			_ = st.Close()
			return nil, err
		}
	}

	hub := websocket.NewHub()
	svc.Chat.SetPublisher(hub)

	throttle := middleware.NewThrottle(cfg.RateLimit.BurstPerSecond, cfg.RateLimit.Burst)
	scheduler := services.NewCleanupScheduler(svc.Auth, limiter, cfg.Cleanup.Schedule, cfg.Session.LifetimeSeconds).
		Also(func(context.Context) {
			if n := throttle.Sweep(); n > 0 {
				logger.Debug.Printf("[cleanup] forgot %d idle throttle entries", n)
			}
		})

	router, err := newRouter(cfg, svc, hub, throttle, templates)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return &App{
		Config:    cfg,
		Store:     st,
		Services:  svc,
		Hub:       hub,
		Throttle:  throttle,
		Scheduler: scheduler,
		Router:    router,
	}, nil
}

// attachCloud wires the optional Redis fan-out and CloudWatch sink.
func (a *App) attachCloud(ctx context.Context) {
	if a.Config.AWS.CloudWatchEnabled {
		sink, err := metrics.NewCloudWatchSink(a.Config.AWS.MetricsNamespace)
		if err != nil {
			logger.Warn.Printf("CloudWatch sink disabled: %v", err)
		} else {
			a.Hub.SetSink(sink)
		}
	}

	if a.Config.Redis.URL == "" {
		return
	}
	bridge, err := websocket.NewRedisBridge(ctx, a.Config.Redis.URL, a.Config.Redis.Channel)
	if err != nil {
		logger.Warn.Printf("Redis chat fan-out disabled: %v", err)
		return
	}
	a.Hub.SetBridge(bridge)
	go func() {
		defer func() { _ = bridge.Close() }()
		if err := bridge.Run(ctx, a.Hub.Deliver); err != nil {
			logger.Error.Printf("Redis chat fan-out stopped: %v", err)
			a.Hub.SetBridge(nil)
		}
	}()
}

func (a *App) handler() http.Handler {
	if a.Config.AWS.XRayEnabled {
		logger.Info.Printf("X-Ray tracing enabled as segment %q", a.Config.AWS.XRaySegmentName)
		return xray.Handler(xray.NewFixedSegmentNamer(a.Config.AWS.XRaySegmentName), a.Router)
	}
	return a.Router
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.InitLogger(cfg.Logging.File); err != nil {
		log.Fatalf("Failed to initialise logger: %v", err)
	}
	logger.SetLogLevel(cfg.Env)

	if err := run(cfg); err != nil {
		logger.Error.Printf("Server stopped: %v", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run(cfg *config.Config) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg, templatesDir())
	if err != nil {
		return err
	}
	defer func() { _ = app.Store.Close() }()

	app.attachCloud(ctx)

	if err := app.Scheduler.Start(); err != nil {
		return err
	}
	defer app.Scheduler.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info.Printf("Listening on %s (%s)", srv.Addr, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
