package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"healsyAPI/handlers"
	"healsyAPI/internal/notification"
	"healsyAPI/middleware"
	"healsyAPI/services"

	_ "net/http/pprof"
)

var (
	dbPool           *pgxpool.Pool
	subsService      *services.SubscriptionService
	userService      *services.UserService
	challengeService *services.ChallengeService
	progressService  *services.ProgressService
	notifService     *services.NotificationService
	paymentService   *services.PaymentService
	insightService   *services.InsightService
	photoService     *services.PhotoService
	fcmService       *notification.FCMService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	clerkSecretKey := os.Getenv("CLERK_SECRET_KEY")
	if clerkSecretKey == "" {
		log.Fatal("CLERK_SECRET_KEY environment variable is not set")
	}
	clerk.SetKey(clerkSecretKey)
	log.Println("Clerk initialized successfully")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to Postgres")

	subsService = services.NewSubscriptionService(dbPool)
	userService = services.NewUserService(dbPool, subsService)
	challengeService = services.NewChallengeService(dbPool, subsService)
	notifService = services.NewNotificationService(dbPool)
	progressService = services.NewProgressService(dbPool, notifService)
	paymentService = services.NewPaymentService(dbPool)
	insightService = services.NewInsightService()

	photoService, err = services.NewPhotoService(
		dbPool,
		os.Getenv("SPACES_KEY"),
		os.Getenv("SPACES_SECRET"),
		os.Getenv("SPACES_REGION"),
		os.Getenv("SPACES_BUCKET"),
	)
	if err != nil {
		log.Fatal("Failed to initialize photo storage:", err)
	}

	fcmService, err = notification.NewFCMService("./serviceAccountKey.json")
	if err != nil {
		log.Printf("Warning: Could not initialize FCM: %v", err)
	} else {
		progressService.SetPushProvider(fcmService)
		log.Println("FCM push provider initialized successfully")
	}

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	userHandler := handlers.NewUserHandler(userService)
	challengeHandler := handlers.NewChallengeHandler(challengeService, progressService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, subsService, userService)
	insightHandler := handlers.NewInsightHandler(insightService)
	photoHandler := handlers.NewPhotoHandler(photoService)
	notificationHandler := handlers.NewNotificationHandler(notifService)
	webhookHandler := handlers.NewWebhookHandler(userService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(http.DefaultServeMux))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "healsy-api"}`))
	}).Methods("GET")

	r.HandleFunc("/webhooks/clerk", webhookHandler.HandleClerkWebhook).Methods("POST")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public catalog so the marketing pages can render without a session
	api.HandleFunc("/challenges", challengeHandler.GetCatalog).Methods("GET")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware)

	protected.HandleFunc("/user", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/user/update-profile", userHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/user/delete-account", userHandler.DeleteAccount).Methods("DELETE")
	protected.HandleFunc("/user/stats", userHandler.GetWellnessStats).Methods("GET")

	protected.HandleFunc("/challenges/mine", challengeHandler.GetMyProgress).Methods("GET")
	protected.HandleFunc("/challenges/{challengeID}/start", challengeHandler.StartChallenge).Methods("POST")
	protected.HandleFunc("/challenges/progress/{progressID}/complete-day", challengeHandler.CompleteDay).Methods("POST")

	protected.HandleFunc("/payments/razorpay/order", paymentHandler.CreateRazorpayOrder).Methods("POST")
	protected.HandleFunc("/payments/razorpay/verify", paymentHandler.VerifyRazorpayPayment).Methods("POST")

	protected.HandleFunc("/insights/advice", insightHandler.GetAdvice).Methods("POST")

	protected.HandleFunc("/photos/progress", photoHandler.UploadProgressPhoto).Methods("POST")
	protected.HandleFunc("/photos/progress", photoHandler.GetProgressPhotos).Methods("GET")

	protected.HandleFunc("/notifications/register-device", notificationHandler.RegisterDevice).Methods("POST")

	// CORS configuration
	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorillaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
