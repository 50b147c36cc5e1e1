package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/daleel-sa/daleel-backend/internal/models"
)

const (
	sessionsCollection   = "user_sessions"
	businessesCollection = "businesses"

	mongoOpTimeout = 10 * time.Second
)

// MongoStore implements Store on a document database, matching the layout the
// conversation data originally lived in: sessions keyed by user id and
// business records carrying their category partition key.
type MongoStore struct {
	sessions   *mongo.Collection
	businesses *mongo.Collection
}

// NewMongoClient creates a connected and pinged MongoDB client
func NewMongoClient(ctx context.Context, uri, username, password string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri)

	if username != "" && password != "" {
		clientOptions.SetAuth(options.Credential{
			Username: username,
			Password: password,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	return client, nil
}

// NewMongoStore creates a mongo-backed store over the named database
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	db := client.Database(database)
	return &MongoStore{
		sessions:   db.Collection(sessionsCollection),
		businesses: db.Collection(businessesCollection),
	}
}

func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), mongoOpTimeout)
}

func (m *MongoStore) GetSession(userID string) (*models.Session, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var session models.Session
	err := m.sessions.FindOne(ctx, bson.M{"_id": userID}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.NewSession(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &session, nil
}

func (m *MongoStore) SaveSession(userID string, state models.SessionState, data models.SessionData) error {
	ctx, cancel := opCtx()
	defer cancel()

	update := bson.M{"$set": bson.M{
		"state":        state,
		"data":         data,
		"last_updated": time.Now(),
	}}
	opts := options.Update().SetUpsert(true)
	if _, err := m.sessions.UpdateByID(ctx, userID, update, opts); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (m *MongoStore) ClearSession(userID string) error {
	ctx, cancel := opCtx()
	defer cancel()

	if _, err := m.sessions.DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (m *MongoStore) FindStaleSessions(threshold time.Duration) ([]*models.Session, error) {
	ctx, cancel := opCtx()
	defer cancel()

	cutoff := time.Now().Add(-threshold)
	filter := bson.M{
		"state":        bson.M{"$ne": string(models.StateMenu)},
		"last_updated": bson.M{"$lt": cutoff},
		"reminder_sent": bson.M{"$ne": true},
	}

	cursor, err := m.sessions.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find stale sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []*models.Session
	for cursor.Next(ctx) {
		var session models.Session
		if err := cursor.Decode(&session); err != nil {
			return nil, fmt.Errorf("decode stale session: %w", err)
		}
		sessions = append(sessions, &session)
	}
	return sessions, cursor.Err()
}

func (m *MongoStore) MarkReminded(userID string) error {
	ctx, cancel := opCtx()
	defer cancel()

	update := bson.M{"$set": bson.M{"reminder_sent": true}}
	if _, err := m.sessions.UpdateByID(ctx, userID, update); err != nil {
		return fmt.Errorf("mark reminded: %w", err)
	}
	return nil
}

func (m *MongoStore) SaveBusiness(business *models.Business) (string, error) {
	code := assignActivityCode(m, business)

	business.ActivityCode = code
	if business.CategoryKey == "" {
		business.CategoryKey = models.CategoryOther
	}
	if business.Status == "" {
		business.Status = models.BusinessStatusPending
	}
	business.CreatedAt = time.Now()

	ctx, cancel := opCtx()
	defer cancel()

	filter := bson.M{"activity_code": code}
	opts := options.Replace().SetUpsert(true)
	if _, err := m.businesses.ReplaceOne(ctx, filter, business, opts); err != nil {
		return "", fmt.Errorf("save business: %w", err)
	}
	return code, nil
}

func (m *MongoStore) FindBusinessByCode(code string) (*models.Business, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var business models.Business
	err := m.businesses.FindOne(ctx, bson.M{"activity_code": code}).Decode(&business)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find business: %w", err)
	}
	return &business, nil
}

func (m *MongoStore) UpdateBusiness(business *models.Business) error {
	ctx, cancel := opCtx()
	defer cancel()

	filter := bson.M{"activity_code": business.ActivityCode}
	result, err := m.businesses.ReplaceOne(ctx, filter, business)
	if err != nil {
		return fmt.Errorf("update business: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoStore) Stats() (*Stats, error) {
	ctx, cancel := opCtx()
	defer cancel()

	stats := &Stats{}

	total, err := m.businesses.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("count businesses: %w", err)
	}
	stats.TotalBusinesses = total

	active, err := m.sessions.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}
	stats.ActiveSessions = active

	opts := options.FindOne().SetSort(bson.D{{Key: "last_updated", Value: -1}})
	var last models.Session
	err = m.sessions.FindOne(ctx, bson.M{}, opts).Decode(&last)
	if err == nil {
		stats.LastContactID = last.UserID
		stats.LastContactAt = last.LastUpdated
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("last contact: %w", err)
	}
	return stats, nil
}
