// Package audit records authentication transitions.
package audit

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/patobeur/inouttracker/internal/models"
	"github.com/patobeur/inouttracker/internal/requestctx"
	"github.com/patobeur/inouttracker/internal/session"
)

const collectionName = "auth_events"

type Recorder interface {
	// Record must not block the request; failures are only logged.
	Record(ctx context.Context, event models.AuthEvent)
	Recent(ctx context.Context, limit int64) ([]models.AuthEvent, error)
}

// stamp fills request metadata and the timestamp from ctx.
func stamp(ctx context.Context, e *models.AuthEvent) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.RequestID == "" {
		e.RequestID = requestctx.RequestID(ctx)
	}
	if e.ClientIP == "" {
		e.ClientIP = requestctx.ClientIP(ctx)
	}
	if e.UserID == nil {
		if s := session.FromContext(ctx); s != nil && s.IsLoggedIn() {
			id := s.UserID()
			e.UserID = &id
		}
	}
}

// MongoRecorder writes events to the auth_events collection.
type MongoRecorder struct {
	col *mongo.Collection
}

func NewMongoRecorder(db *mongo.Database) *MongoRecorder {
	return &MongoRecorder{col: db.Collection(collectionName)}
}

// EnsureIndexes creates the created_at index used by Recent. Called once at boot.
func (m *MongoRecorder) EnsureIndexes(ctx context.Context) error {
	_, err := m.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created_at"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_user_created_at"),
		},
	})
	return err
}

func (m *MongoRecorder) Record(ctx context.Context, event models.AuthEvent) {
	stamp(ctx, &event)
	go func(e models.AuthEvent) {
		insertCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := m.col.InsertOne(insertCtx, e); err != nil {
			log.WithError(err).WithField("event", e.Type).Warn("audit insert failed")
		}
	}(event)
}

// Recent returns the newest events first.
func (m *MongoRecorder) Recent(ctx context.Context, limit int64) ([]models.AuthEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	events := []models.AuthEvent{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// LogRecorder writes events to the structured log. Used when MongoDB is not configured.
type LogRecorder struct{}

func (LogRecorder) Record(ctx context.Context, event models.AuthEvent) {
	stamp(ctx, &event)
	fields := log.Fields{
		"event":      event.Type,
		"request_id": event.RequestID,
		"client_ip":  event.ClientIP,
	}
	if event.UserID != nil {
		fields["user_id"] = *event.UserID
	}
	if event.Detail != "" {
		fields["detail"] = event.Detail
	}
	log.WithFields(fields).Info("auth event")
}

func (LogRecorder) Recent(context.Context, int64) ([]models.AuthEvent, error) {
	return []models.AuthEvent{}, nil
}
