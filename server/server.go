package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teamtune/cache"
	"teamtune/config"
	"teamtune/core/auth"
	"teamtune/core/spotify"
	"teamtune/core/tunes"
	"teamtune/db"
	"teamtune/logger"
	"teamtune/repository"

	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
	})

	auth.SetSecret(cfg.JWTSecret)

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("failed to connect to database", logger.ErrorField(err))
	}
	defer db.CloseDB()

	if err := db.InitDB(); err != nil {
		logger.Fatal("failed to initialize database", logger.ErrorField(err))
	}

	if err := db.ConnectRedis(cfg); err != nil {
		// The name cache degrades to profile lookups without Redis.
		logger.Warn("redis unavailable, display name caching disabled", logger.ErrorField(err))
	} else {
		defer db.CloseRedis()
	}

	userRepo := repository.NewUserRepository(db.DB)
	playlistRepo := repository.NewPlaylistRepository(db.DB)
	inviteRepo := repository.NewInvitedUserRepository(db.DB)

	oauthCfg := spotify.OAuthConfig(cfg)
	tokens := tunes.NewManager(userRepo, oauthCfg, nil)
	names := cache.NewNameCache(db.RedisClient)
	newClient := func(accessToken string) spotify.API {
		return spotify.NewClient(accessToken)
	}

	svc := tunes.NewService(userRepo, playlistRepo, inviteRepo, tokens, names, newClient, cfg.SpotifyMarket)
	apiHandler := NewAPIHandler(userRepo, svc, tokens, oauthCfg, newClient, cfg)

	router := mux.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Auth endpoints
	router.HandleFunc("/api/auth/register", apiHandler.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/register_invite", apiHandler.RegisterInviteHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/me", apiHandler.AuthMiddleware(apiHandler.MeHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/auth/logout", apiHandler.AuthMiddleware(apiHandler.LogoutHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/delete_account/{id}", apiHandler.AuthMiddleware(apiHandler.DeleteAccountHandler)).Methods(http.MethodDelete)

	// Playlist endpoints
	router.HandleFunc("/api/playlists", apiHandler.AuthMiddleware(apiHandler.ListPlaylistsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists", apiHandler.AuthMiddleware(apiHandler.CreatePlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/public/{publicID}", apiHandler.PublicPlaylistHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists/{id}", apiHandler.AuthMiddleware(apiHandler.GetPlaylistHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists/{id}", apiHandler.AuthMiddleware(apiHandler.UpdatePlaylistHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/playlists/{id}", apiHandler.AuthMiddleware(apiHandler.DeletePlaylistHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/playlists/{id}/copy", apiHandler.AuthMiddleware(apiHandler.CopyPlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id}/follow", apiHandler.AuthMiddleware(apiHandler.FollowPlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id}/follow", apiHandler.AuthMiddleware(apiHandler.UnfollowPlaylistHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/playlists/{id}/tracks", apiHandler.AuthMiddleware(apiHandler.AddTrackHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id}/tracks/{trackID}", apiHandler.AuthMiddleware(apiHandler.RemoveTrackHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/playlists/{id}/fill", apiHandler.AuthMiddleware(apiHandler.FillPlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id}/invite", apiHandler.AuthMiddleware(apiHandler.InviteHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id}/play", apiHandler.AuthMiddleware(apiHandler.PlayPlaylistHandler)).Methods(http.MethodPost)

	// Track discovery
	router.HandleFunc("/api/tracks/search", apiHandler.AuthMiddleware(apiHandler.SearchTracksHandler)).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", logger.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("server stopped")
}
