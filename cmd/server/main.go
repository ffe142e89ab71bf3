package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/picshare/picshare/gallery/application"
	"github.com/picshare/picshare/gallery/persistence"
	"github.com/picshare/picshare/internal/config"
	"github.com/picshare/picshare/internal/middleware"
	"github.com/picshare/picshare/internal/rest"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	cfg := config.New()

	metadataStore, err := persistence.NewFileMetadataStore(cfg.MetadataPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metadata store")
	}

	blobStore := persistence.NewDiskBlobStore(cfg.UploadsDir)
	galleryService := application.NewGalleryService(blobStore, metadataStore)

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	rest.NewApi(router, galleryService, cfg.IndexPath, cfg.UploadsDir)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Msg("Starting server on port :" + cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}
