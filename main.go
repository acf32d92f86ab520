package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"portfolio/web/config"
	"portfolio/web/database"
	"portfolio/web/handlers"
	"portfolio/web/middleware"
	"portfolio/web/store"
)

// sitePages are the renderable page names; each maps to templates/<name>.html.
var sitePages = []string{"index", "about", "works", "contact", "thankyou"}

func main() {
	// Load .env file at the very start
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Initialize PostgreSQL (unique-visitor aggregate) ---
	dbClient, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
	}
	defer dbClient.Close()

	// --- Initialize ClickHouse (page-view log) ---
	chClient, err := database.NewClickHouseDB(cfg.ClickHouse)
	if err != nil {
		log.Fatalf("Failed to initialize ClickHouse database: %v", err)
	}
	defer chClient.Close()

	// --- Initialize Stores ---
	visitorStore := store.NewVisitorStore(dbClient.DB)
	pageViewStore := store.NewPageViewStore(chClient)
	submissionStore := store.NewSubmissionStore(cfg.TextSinkPath, cfg.CSVSinkPath)

	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	if err := visitorStore.Init(initCtx); err != nil {
		log.Fatalf("Failed to initialize visitors table: %v", err)
	}
	if err := pageViewStore.Init(initCtx); err != nil {
		log.Fatalf("Failed to initialize page_views table: %v", err)
	}
	cancelInit()

	// --- Initialize Handlers ---
	pageHandlers := handlers.NewPageHandlers(cfg.BaseURL, sitePages)
	contactHandlers := handlers.NewContactHandlers(submissionStore)
	analyticsHandlers := handlers.NewAnalyticsHandlers(pageViewStore, visitorStore)

	r := gin.Default()

	r.Use(middleware.SecurityHeaders())
	r.LoadHTMLGlob("templates/*.html")

	static := r.Group("/static", middleware.StaticCacheHeaders())
	static.Static("/", "./static")

	r.GET("/robots.txt", pageHandlers.RobotsTxt)
	r.GET("/sitemap.xml", pageHandlers.SitemapXML)

	// Page routes run through the visitor tracker; everything else does not.
	// Unknown page names are not recorded even though they share the route.
	tracked := r.Group("/", middleware.TrackVisitor(visitorStore, pageViewStore, cfg, pageHandlers.KnownPath))
	{
		tracked.GET("", pageHandlers.Home)
		tracked.GET("/:page", pageHandlers.Page)
	}

	r.POST("/submit_form", contactHandlers.SubmitForm)

	admin := r.Group("/admin", middleware.AdminRequired(cfg))
	{
		admin.GET("/analytics", analyticsHandlers.Dashboard)
		admin.GET("/analytics/data", analyticsHandlers.ChartData)
	}

	r.NoRoute(pageHandlers.NotFound)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Portfolio server starting on http://localhost:%s (env: %s)", cfg.Port, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
