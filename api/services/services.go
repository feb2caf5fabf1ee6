package services

import (
	"context"

	"github.com/EO-DataHub/eodhp-record-services/internal/appconfig"
	"github.com/EO-DataHub/eodhp-record-services/internal/events"
	"github.com/EO-DataHub/eodhp-record-services/models"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecordStore is the document store behind the record endpoints.
type RecordStore interface {
	GetRecords(ctx context.Context, level string) ([]models.Record, error)
	GetRecord(ctx context.Context, id primitive.ObjectID) (*models.Record, error)
	CreateRecord(ctx context.Context, payload models.RecordPayload) (models.InsertResult, error)
	UpdateRecord(ctx context.Context, id primitive.ObjectID, payload models.RecordPayload) (models.UpdateResult, error)
	DeleteRecord(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error)
	DeleteRecords(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}

// Service contains all shared dependencies for handlers.
type Service struct {
	Config    *appconfig.Config
	DB        RecordStore
	Publisher events.Notifier
}

// publish sends a record event; failures are logged and never fail the request.
func (svc *Service) publish(ctx context.Context, event models.RecordEvent) {
	if svc.Publisher == nil {
		return
	}
	if err := svc.Publisher.Publish(ctx, event); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("action", event.Action).Msg("Failed to publish record event")
	}
}
