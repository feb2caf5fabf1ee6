package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/EO-DataHub/eodhp-record-services/api/handlers"
	"github.com/EO-DataHub/eodhp-record-services/api/middleware"
	"github.com/EO-DataHub/eodhp-record-services/api/services"
	"github.com/EO-DataHub/eodhp-record-services/db"
	docs "github.com/EO-DataHub/eodhp-record-services/docs"
	"github.com/EO-DataHub/eodhp-record-services/internal/events"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	httpSwagger "github.com/swaggo/http-swagger"
)

var (
	host     string
	inMemory bool
)

// @title Employee Record Services API
// @version v1
// @description This is the API for the employee record store.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server for handling record API requests",
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config and set up logging
		commonSetUp()
		if host != "" {
			appCfg.Host = host
		}

		ctx, stop := signal.NotifyContext(commandContext(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, closeStore := initializeStore(ctx)
		defer closeStore()

		publisher := initializePublisher()
		defer publisher.Close()

		service := &services.Service{
			Config:    appCfg,
			DB:        store,
			Publisher: publisher,
		}

		// Create routes
		r := mux.NewRouter()
		handlers.RegisterRoutes(r, appCfg.BasePath, service)

		// Docs
		docs.SwaggerInfo.Host = appCfg.Host
		docs.SwaggerInfo.BasePath = appCfg.BasePath
		r.PathPrefix(appCfg.DocsPath).Handler(httpSwagger.Handler(
			httpSwagger.URL(path.Join(appCfg.DocsPath, "/doc.json")),
			httpSwagger.DeepLinking(true),
			httpSwagger.DocExpansion("none"),
			httpSwagger.DomID("swagger-ui"),
		)).Methods(http.MethodGet)

		server := &http.Server{
			Addr:              appCfg.Host,
			Handler:           middleware.WithCORS(appCfg.CORS.AllowedOrigins)(r),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Server shutdown failed")
			}
		}()

		log.Info().Str("addr", appCfg.Host).Msg("Server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("could not start server")
		}
		log.Info().Msg("Server stopped")
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&host, "host", "", "address to listen on, overrides the config host")
	serveCmd.Flags().BoolVar(&inMemory, "in-memory", false, "keep records in process memory instead of MongoDB")
}

// initializeStore opens the record store and returns a function that releases it.
func initializeStore(ctx context.Context) (services.RecordStore, func()) {
	if inMemory {
		log.Warn().Msg("Using in-memory record store, records are lost on exit")
		return db.NewMemoryDB(), func() {}
	}

	recordDB := openRecordDB(ctx)
	if err := recordDB.EnsureIndexes(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to ensure indexes")
	}
	return recordDB, func() {
		if err := recordDB.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to close database connection")
		}
	}
}

// openRecordDB connects to MongoDB using the configured, or secret, URI.
func openRecordDB(ctx context.Context) *db.RecordDB {
	resolveDatabaseURI(ctx)

	recordDB, err := db.NewRecordDB(ctx, appCfg.Database, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize RecordDB")
	}
	return recordDB
}

// initializePublisher connects to Pulsar, or drops events when no URL is configured.
func initializePublisher() events.Notifier {
	if appCfg.Pulsar.URL == "" {
		log.Warn().Msg("No Pulsar URL configured, record events will not be published")
		return events.NoopNotifier{}
	}

	publisher, err := events.NewEventPublisher(appCfg.Pulsar.URL, appCfg.Pulsar.TopicProducer)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize event publisher")
	}
	return publisher
}
