package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"cityexplorer/internal/explore"
	"cityexplorer/internal/records"
)

const (
	searchesCollection = "city_searches"
	defaultDBName      = "cityexplorer"
)

// MongoStore is the Mongo-backed records.Store. It tracks connection
// health in an availability flag that every operation checks before
// touching the driver, so a dead database fails fast instead of
// hanging each request.
type MongoStore struct {
	client   *mongodriver.Client
	searches *mongodriver.Collection

	available atomic.Bool
	indexOnce sync.Once
}

// cityDoc is the persisted document shape. The domain record carries
// its id as a hex string; documents use a real ObjectID.
type cityDoc struct {
	ID          primitive.ObjectID      `bson:"_id,omitempty"`
	UserID      string                  `bson:"user_id"`
	UserName    string                  `bson:"user_name"`
	UserEmail   string                  `bson:"user_email"`
	City        explore.City            `bson:"city"`
	Weather     explore.WeatherSnapshot `bson:"weather"`
	CountryInfo explore.CountryInfo     `bson:"country_info"`
	SearchedAt  time.Time               `bson:"searched_at"`
}

func toDoc(rec records.CityRecord) cityDoc {
	return cityDoc{
		UserID:      rec.UserID,
		UserName:    rec.UserName,
		UserEmail:   rec.UserEmail,
		City:        rec.City,
		Weather:     rec.Weather,
		CountryInfo: rec.CountryInfo,
		SearchedAt:  rec.SearchedAt.UTC().Truncate(time.Millisecond),
	}
}

func (d cityDoc) toRecord() records.CityRecord {
	return records.CityRecord{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		UserName:    d.UserName,
		UserEmail:   d.UserEmail,
		City:        d.City,
		Weather:     d.Weather,
		CountryInfo: d.CountryInfo,
		SearchedAt:  d.SearchedAt.UTC(),
	}
}

// NewMongoStore connects to MongoDB. An unreachable database is not
// fatal: the store comes up unavailable and the health monitor flips
// it once the first ping succeeds.
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	db := cli.Database(databaseFromURI(uri))
	s := &MongoStore{
		client:   cli,
		searches: db.Collection(searchesCollection),
	}

	if err := s.CheckHealth(ctx); err != nil {
		log.Printf("mongo: not connected yet: %v", err)
	}

	return s, nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// CheckHealth pings the server and updates the availability flag,
// logging transitions. Indexes are ensured on the first successful
// ping.
func (s *MongoStore) CheckHealth(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		if s.available.Swap(false) {
			log.Printf("mongo: disconnected: %v", err)
		}
		return fmt.Errorf("mongo ping: %w", err)
	}

	if !s.available.Swap(true) {
		log.Println("mongo: connected")
	}

	s.indexOnce.Do(func() {
		if err := s.ensureIndexes(ctx); err != nil {
			log.Printf("mongo: ensure indexes: %v", err)
		}
	})

	return nil
}

// ensureIndexes creates the listing and grouping indexes:
//   - owner listings: user_id + searched_at(desc)
//   - top-cities grouping: city.name
func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	models := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "searched_at", Value: -1}},
			Options: options.Index().SetName("user_searched_desc"),
		},
		{
			Keys:    bson.D{{Key: "city.name", Value: 1}},
			Options: options.Index().SetName("city_name"),
		},
	}

	_, err := s.searches.Indexes().CreateMany(ctx, models)
	return err
}

// Save inserts a record and returns it with the generated id.
func (s *MongoStore) Save(ctx context.Context, rec records.CityRecord) (records.CityRecord, error) {
	if !s.available.Load() {
		return records.CityRecord{}, records.ErrUnavailable
	}

	res, err := s.searches.InsertOne(ctx, toDoc(rec))
	if err != nil {
		return records.CityRecord{}, fmt.Errorf("mongo: insert: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return records.CityRecord{}, fmt.Errorf("mongo: unexpected inserted id type %T", res.InsertedID)
	}

	rec.ID = oid.Hex()
	return rec, nil
}

// List returns one page sorted searched_at desc, _id desc, plus the
// total count for the filter.
func (s *MongoStore) List(ctx context.Context, params records.ListParams) ([]records.CityRecord, int64, error) {
	if !s.available.Load() {
		return nil, 0, records.ErrUnavailable
	}

	filter := bson.D{}
	if params.OwnerID != "" {
		filter = append(filter, bson.E{Key: "user_id", Value: params.OwnerID})
	}

	total, err := s.searches.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("mongo: count: %w", err)
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "searched_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(params.Page-1) * int64(params.Limit)).
		SetLimit(int64(params.Limit))

	cur, err := s.searches.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("mongo: find: %w", err)
	}
	defer cur.Close(ctx)

	var recs []records.CityRecord
	for cur.Next(ctx) {
		var doc cityDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("mongo: decode: %w", err)
		}
		recs = append(recs, doc.toRecord())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("mongo: cursor: %w", err)
	}

	return recs, total, nil
}

// ByID returns a record by its hex id. A malformed id reads as "no
// such record".
func (s *MongoStore) ByID(ctx context.Context, id string) (records.CityRecord, error) {
	if !s.available.Load() {
		return records.CityRecord{}, records.ErrUnavailable
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return records.CityRecord{}, records.ErrNotFound
	}

	var doc cityDoc
	if err := s.searches.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return records.CityRecord{}, records.ErrNotFound
		}
		return records.CityRecord{}, fmt.Errorf("mongo: find one: %w", err)
	}

	return doc.toRecord(), nil
}

// Delete removes a record after verifying the caller owns it.
func (s *MongoStore) Delete(ctx context.Context, id, ownerID string) error {
	if !s.available.Load() {
		return records.ErrUnavailable
	}

	rec, err := s.ByID(ctx, id)
	if err != nil {
		return err
	}
	if rec.UserID != ownerID {
		return records.ErrNotOwner
	}

	oid, _ := primitive.ObjectIDFromHex(id)
	res, err := s.searches.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("mongo: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return records.ErrNotFound
	}
	return nil
}

// Stats counts all records, the owner's records, and groups the five
// most saved city names. Count ties rank by name so the output is
// deterministic.
func (s *MongoStore) Stats(ctx context.Context, ownerID string) (records.Stats, error) {
	if !s.available.Load() {
		return records.Stats{}, records.ErrUnavailable
	}

	total, err := s.searches.CountDocuments(ctx, bson.D{})
	if err != nil {
		return records.Stats{}, fmt.Errorf("mongo: count total: %w", err)
	}

	mine, err := s.searches.CountDocuments(ctx, bson.D{{Key: "user_id", Value: ownerID}})
	if err != nil {
		return records.Stats{}, fmt.Errorf("mongo: count mine: %w", err)
	}

	pipeline := mongodriver.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$city.name"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: 5}},
	}

	cur, err := s.searches.Aggregate(ctx, pipeline)
	if err != nil {
		return records.Stats{}, fmt.Errorf("mongo: aggregate: %w", err)
	}
	defer cur.Close(ctx)

	var top []records.CityCount
	if err := cur.All(ctx, &top); err != nil {
		return records.Stats{}, fmt.Errorf("mongo: aggregate decode: %w", err)
	}

	return records.Stats{
		TotalSearches: total,
		MySearches:    mine,
		TopCities:     top,
	}, nil
}

// databaseFromURI extracts the database name from the mongodb URI
// path, falling back to a default.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return defaultDBName
}
