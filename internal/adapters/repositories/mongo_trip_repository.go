package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"itinerary-optimizer-service/internal/domain"
	"itinerary-optimizer-service/internal/platform/obs"
)

const tripsCollection = "trips"

type tripDocument struct {
	ID        string     `bson:"_id"`
	Name      string     `bson:"name"`
	Itinerary []bson.Raw `bson:"itinerary"`
	UpdatedAt time.Time  `bson:"updated_at"`
}

// MongoDB-backed implementation of the TripRepository port.
// Each trip is one document in the trips collection, keyed by trip id.
type MongoTripRepository struct{ Coll *mongo.Collection }

func NewMongoTripRepository(db *mongo.Database) *MongoTripRepository {
	return &MongoTripRepository{Coll: db.Collection(tripsCollection)}
}

// NewMongoClient connects and verifies the deployment is reachable.
func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("open mongo: connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("open mongo: ping: %w", err)
	}

	return client, nil
}

func (m *MongoTripRepository) LoadItinerary(ctx context.Context, tripID string) (_ []domain.ItineraryItem, err error) {
	defer obs.Time(ctx, "trip.mongo.LoadItinerary")(&err)

	if m.Coll == nil {
		return nil, errors.New("mongo trip repository: collection is nil")
	}

	var doc tripDocument
	err = m.Coll.FindOne(ctx, bson.M{"_id": tripID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("load itinerary %q: %w", tripID, domain.ErrTripNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load itinerary %q: find trip: %w", tripID, err)
	}

	items, err := itemsFromBSON(doc.Itinerary)
	if err != nil {
		return nil, fmt.Errorf("load itinerary %q: %w", tripID, err)
	}
	return items, nil
}

func (m *MongoTripRepository) SaveItinerary(ctx context.Context, tripID string, items []domain.ItineraryItem) (err error) {
	defer obs.Time(ctx, "trip.mongo.SaveItinerary")(&err)

	if m.Coll == nil {
		return errors.New("mongo trip repository: collection is nil")
	}

	docs, err := itemsToBSON(items)
	if err != nil {
		return fmt.Errorf("save itinerary %q: %w", tripID, err)
	}

	// A single-document update is atomic.
	update := bson.M{"$set": bson.M{"itinerary": docs, "updated_at": time.Now().UTC()}}
	res, err := m.Coll.UpdateOne(ctx, bson.M{"_id": tripID}, update)
	if err != nil {
		return fmt.Errorf("save itinerary %q: update trip: %w", tripID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("save itinerary %q: %w", tripID, domain.ErrTripNotFound)
	}

	return nil
}

// SeedTrips upserts the given trips, replacing existing documents.
func (m *MongoTripRepository) SeedTrips(ctx context.Context, seeds []TripSeed) error {
	if m.Coll == nil {
		return errors.New("seed trips: collection is nil")
	}

	for _, t := range seeds {
		docs, err := itemsToBSON(t.Itinerary)
		if err != nil {
			return fmt.Errorf("seed trips: trip_id=%s: %w", t.TripID, err)
		}

		replacement := bson.M{
			"_id":        t.TripID,
			"name":       t.Name,
			"itinerary":  docs,
			"updated_at": time.Now().UTC(),
		}
		opts := options.Replace().SetUpsert(true)
		if _, err := m.Coll.ReplaceOne(ctx, bson.M{"_id": t.TripID}, replacement, opts); err != nil {
			return fmt.Errorf("seed trips: upsert trip_id=%s: %w", t.TripID, err)
		}
	}

	return nil
}

// Items travel through relaxed extended JSON so numbers stay numbers in the
// stored document.
func itemsToBSON(items []domain.ItineraryItem) ([]bson.D, error) {
	out := make([]bson.D, 0, len(items))
	for i, it := range items {
		raw, err := json.Marshal(it)
		if err != nil {
			return nil, fmt.Errorf("encode item %d: %w", i, err)
		}

		var doc bson.D
		if err := bson.UnmarshalExtJSON(raw, false, &doc); err != nil {
			return nil, fmt.Errorf("encode item %d: %w", i, err)
		}
		out = append(out, doc)
	}
	return out, nil
}

func itemsFromBSON(docs []bson.Raw) ([]domain.ItineraryItem, error) {
	out := make([]domain.ItineraryItem, 0, len(docs))
	for i, doc := range docs {
		raw, err := bson.MarshalExtJSON(doc, false, false)
		if err != nil {
			return nil, fmt.Errorf("decode item %d: %w", i, err)
		}

		var it domain.ItineraryItem
		if err := json.Unmarshal(raw, &it); err != nil {
			return nil, fmt.Errorf("decode item %d: %w", i, err)
		}
		out = append(out, it)
	}
	return out, nil
}
