package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"memoir/backend/internal/config"
	"memoir/backend/internal/database"
	"memoir/backend/internal/handlers"
	"memoir/backend/internal/middleware"
	"memoir/backend/internal/routes"
	"memoir/backend/internal/services"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Connect to MongoDB. The service must not serve traffic without a
	// reachable store.
	log.Printf("Connecting to MongoDB...")
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}
	defer database.Disconnect()

	// Verify the configured model is available on the Ollama server before
	// serving any traffic.
	enhancer := services.NewEnhancer(cfg.OllamaURL, cfg.OllamaModel)
	log.Printf("Checking Ollama for model %q...", cfg.OllamaModel)
	checkCtx, checkCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer checkCancel()
	if err := enhancer.CheckModel(checkCtx); err != nil {
		log.Fatalf("Ollama model %q not found or Ollama is not running. "+
			"Please ensure Ollama is running and you have pulled the model with 'ollama pull %s'. Details: %v",
			cfg.OllamaModel, cfg.OllamaModel, err)
	}
	log.Printf("✅ Ollama model %q found", cfg.OllamaModel)

	// Local mirror directory for entry text files
	files, err := services.NewFileStore(cfg.JournalFilesDir)
	if err != nil {
		log.Fatal("Failed to prepare journal files directory: ", err)
	}
	log.Printf("Journal text files will be saved in: %s", files.Dir())

	// Cloudinary is optional; without it the upload route is not mounted and
	// clients store base64 image data directly.
	var uploader handlers.Uploader
	if cfg.HasCloudinary() {
		cld, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Printf("⚠️  WARNING: Failed to initialize Cloudinary: %v", err)
			log.Println("   Image uploads will not be available")
		} else {
			uploader = cld
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Cloudinary credentials not found. Image uploads will not be available")
	}

	// Redis backs the per-IP rate limiter; the service runs without it.
	redisUp := false
	if cfg.RedisURI != "" {
		log.Printf("Connecting to Redis...")
		if err := database.ConnectRedis(cfg.RedisURI); err != nil {
			log.Printf("⚠️  WARNING: Failed to connect to Redis: %v", err)
			log.Println("   Rate limiting will not be available")
		} else {
			redisUp = true
			defer database.DisconnectRedis()
		}
	}

	store := services.NewEntryStore(database.DB.Collection(database.EntriesCollection))
	h := handlers.New(store, enhancer, files, uploader)

	// Setup router
	r := chi.NewRouter()
	r.Use(middleware.RequestLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP + enhance rate limiting)")
	}
	if redisUp {
		r.Use(middleware.RateLimitMiddleware)
	}

	// Health check (no rate limit concerns, trivially cheap)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r, h, uploader != nil)

	log.Println("📋 Registered routes:")
	log.Println("  GET  /health")
	log.Println("  POST /enhance")
	log.Println("  POST /save_entry")
	log.Println("  GET  /get_entries")
	log.Println("  GET  /get_memory_file/{filename}")
	if uploader != nil {
		log.Println("  POST /upload_image")
	}

	log.Printf("🚀 Memoir backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
