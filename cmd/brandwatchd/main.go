package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/brandwatch/brandwatchd/internal/analytics"
	"github.com/brandwatch/brandwatchd/internal/collectors"
	"github.com/brandwatch/brandwatchd/internal/config"
	"github.com/brandwatch/brandwatchd/internal/manager"
	"github.com/brandwatch/brandwatchd/internal/model"
	"github.com/brandwatch/brandwatchd/internal/notify"
	"github.com/brandwatch/brandwatchd/internal/store"
	"github.com/brandwatch/brandwatchd/internal/timeline"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting brand mention monitor")

	// The store connects in the background so an unavailable volume at
	// boot never blocks the API. Until it connects, reads fail with
	// store.ErrUnavailable and collector writes are lost for that run.
	st := store.OpenLazy(cfg.DatabasePath)
	defer st.Close()

	sink := notify.NewMulti(
		notify.NewWebhookSink(cfg.WebhookURL),
		notify.NewEmailSink(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.NotificationEmail),
	)

	cs := []collectors.Collector{
		collectors.NewRedditCollector(st),
		collectors.NewYouTubeCollector(st, cfg.YouTubeAPIKey),
		collectors.NewNewsCollector(st, cfg.NewsSites),
		collectors.NewWebCollector(st, cfg.WebPages),
		collectors.NewRSSCollector(st, cfg.RSSFeeds),
		collectors.NewTwitterCollector(st, cfg.TwitterBearerToken),
		collectors.NewInstagramCollector(st),
		collectors.NewLinkedInCollector(st),
	}

	mgr := manager.New(st, sink, cs, time.Duration(cfg.CollectionIntervalSeconds)*time.Second)
	defer mgr.Stop()

	defaultWindow := timeline.Parse(cfg.DefaultTimeline)

	router := mux.NewRouter()
	router.HandleFunc("/health", healthHandler).Methods("GET")
	router.HandleFunc("/control/status", statusHandler(mgr)).Methods("GET")
	router.HandleFunc("/control/status/{brand}", brandStatusHandler(mgr)).Methods("GET")
	router.HandleFunc("/control/start", startHandler(mgr, defaultWindow)).Methods("POST")
	router.HandleFunc("/control/stop", stopHandler(mgr)).Methods("POST")
	router.HandleFunc("/collect/{brand}", triggerHandler(mgr, defaultWindow)).Methods("POST")
	router.HandleFunc("/dashboard", dashboardHandler(st)).Methods("GET")
	router.HandleFunc("/latest/{source}", latestHandler(st)).Methods("GET")
	router.HandleFunc("/brands/{brand}", deleteBrandHandler(mgr)).Methods("DELETE")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func statusHandler(mgr *manager.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, mgr.GetStatus())
	}
}

func brandStatusHandler(mgr *manager.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brand := mux.Vars(r)["brand"]
		writeJSON(w, http.StatusOK, map[string]any{
			"brand":     brand,
			"isRunning": mgr.IsRunning(brand),
		})
	}
}

type controlRequest struct {
	Brand    string `json:"brand"`
	Timeline string `json:"timeline,omitempty"`
}

func startHandler(mgr *manager.Manager, defaultWindow timeline.Window) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req controlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Brand == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "brand required"})
			return
		}

		window := defaultWindow
		if req.Timeline != "" {
			window = timeline.Parse(req.Timeline)
		}

		if mgr.StartBrand(req.Brand, window) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "started", "brand": req.Brand})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "already_running", "brand": req.Brand})
	}
}

func stopHandler(mgr *manager.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req controlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Brand == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "brand required"})
			return
		}

		if mgr.StopBrand(req.Brand) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "stopped", "brand": req.Brand})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "not_running", "brand": req.Brand})
	}
}

type collectResponse struct {
	manager.TickResult
	Pruned int64 `json:"pruned"`
}

// triggerHandler runs a timeline-aware refresh synchronously so the
// caller gets the per-source counts, not an all-or-nothing outcome.
func triggerHandler(mgr *manager.Manager, defaultWindow timeline.Window) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brand := mux.Vars(r)["brand"]
		window := defaultWindow
		if t := r.URL.Query().Get("timeline"); t != "" {
			window = timeline.Parse(t)
		}

		result, pruned := mgr.UpdateBrand(r.Context(), brand, window)
		logrus.Infof("Manual collection for %s: %d new, %d pruned", brand, result.Total, pruned)

		writeJSON(w, http.StatusOK, collectResponse{TickResult: result, Pruned: pruned})
	}
}

func dashboardHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brand := r.URL.Query().Get("brand")
		if brand == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "brand required"})
			return
		}

		dashboard, err := analytics.Dashboard(r.Context(), st, brand)
		if err != nil {
			logrus.Errorf("Dashboard for %s: %v", brand, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "server error"})
			return
		}
		writeJSON(w, http.StatusOK, dashboard)
	}
}

func latestHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		source := mux.Vars(r)["source"]
		brand := r.URL.Query().Get("brand")
		if brand == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "brand required"})
			return
		}

		limit := 5
		if l := r.URL.Query().Get("limit"); l != "" {
			fmt.Sscanf(l, "%d", &limit)
		}

		switch source {
		case "news":
			news, err := analytics.LatestNews(r.Context(), st, brand, limit)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "server error"})
				return
			}
			writeJSON(w, http.StatusOK, news)
		case "youtube":
			videos, err := analytics.LatestVideos(r.Context(), st, brand, limit)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "server error"})
				return
			}
			writeJSON(w, http.StatusOK, videos)
		default:
			mentions, err := analytics.LatestMentions(r.Context(), st, brand, model.Platform(source), limit)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "server error"})
				return
			}
			writeJSON(w, http.StatusOK, mentions)
		}
	}
}

func deleteBrandHandler(mgr *manager.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brand := mux.Vars(r)["brand"]

		deleted, err := mgr.ResetBrand(r.Context(), brand)
		if err != nil {
			logrus.Errorf("Reset brand %s: %v", brand, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "server error"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"brand": brand, "deleted": deleted})
	}
}
