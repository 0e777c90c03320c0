package repositories

import (
	"context"
	"errors"
	"time"

	"disputetrack/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ArchiveRepository keeps a durable copy of tracking events in MongoDB.
// The engine's own log is bounded and memory-resident; this repository is
// the snapshot collaborator for callers that need history beyond that.
type ArchiveRepository struct {
	collection *mongo.Collection
}

func NewArchiveRepository(db *mongo.Database) *ArchiveRepository {
	return &ArchiveRepository{
		collection: db.Collection("tracking_events"),
	}
}

func (ar *ArchiveRepository) Archive(ctx context.Context, event models.TrackingEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := ar.collection.InsertOne(ctx, event)
	return err
}

// GetByDispute returns the archived events for a dispute, newest first.
func (ar *ArchiveRepository) GetByDispute(ctx context.Context, disputeID string, limit int) ([]models.TrackingEvent, error) {
	if disputeID == "" {
		return nil, errors.New("dispute ID is required")
	}
	if limit <= 0 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := ar.collection.Find(ctx, bson.M{"disputeId": disputeID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.TrackingEvent
	err = cursor.All(ctx, &events)
	return events, err
}

// CountForDispute returns how many events are archived for a dispute.
func (ar *ArchiveRepository) CountForDispute(ctx context.Context, disputeID string) (int64, error) {
	return ar.collection.CountDocuments(ctx, bson.M{"disputeId": disputeID})
}
