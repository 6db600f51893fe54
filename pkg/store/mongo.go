package store

import (
	"context"
	"sort"
	"time"

	"github.com/go-errors/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig locates the usage-log collection.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// MongoStore implements Store on a MongoDB collection. A client is connected
// for each call and disconnected before returning.
type MongoStore struct {
	cfg MongoConfig
	now func() time.Time
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore creates a MongoDB-backed usage log.
func NewMongoStore(cfg MongoConfig) *MongoStore {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &MongoStore{cfg: cfg, now: func() time.Time { return time.Now().UTC() }}
}

func (s *MongoStore) withCollection(ctx context.Context, fn func(ctx context.Context, coll *mongo.Collection) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(s.cfg.URI).
		SetServerSelectionTimeout(s.cfg.Timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return errors.Errorf("connect mongo: %w", err)
	}
	defer func() {
		dctx, dcancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Timeout)
		defer dcancel()
		_ = client.Disconnect(dctx)
	}()

	return fn(ctx, client.Database(s.cfg.Database).Collection(s.cfg.Collection))
}

// Insert stores a single usage entry. A zero Timestamp is stamped with the
// current UTC time.
func (s *MongoStore) Insert(ctx context.Context, entry Entry) (err error) {
	ctx, span := startSpan(ctx, "store.mongo.Insert", "mongodb")
	defer func() { endSpan(span, err) }()

	doc := entryDocument(entry, s.now)
	return s.withCollection(ctx, func(ctx context.Context, coll *mongo.Collection) error {
		if _, err := coll.InsertOne(ctx, doc); err != nil {
			return errors.Errorf("insert usage entry: %w", err)
		}
		return nil
	})
}

// TopQueries groups entries by search type and parameter set.
func (s *MongoStore) TopQueries(ctx context.Context, limit int) (counts []QueryCount, err error) {
	ctx, span := startSpan(ctx, "store.mongo.TopQueries", "mongodb")
	defer func() { endSpan(span, err) }()

	err = s.withCollection(ctx, func(ctx context.Context, coll *mongo.Collection) error {
		cur, err := coll.Aggregate(ctx, topQueriesPipeline(limit))
		if err != nil {
			return errors.Errorf("aggregate top queries: %w", err)
		}
		defer func() { _ = cur.Close(ctx) }()

		for cur.Next(ctx) {
			var row struct {
				ID struct {
					Type   string `bson:"type"`
					Params bson.D `bson:"params"`
				} `bson:"_id"`
				Count int `bson:"count"`
			}
			if err := cur.Decode(&row); err != nil {
				return errors.Errorf("decode top query: %w", err)
			}
			params := make(map[string]any, len(row.ID.Params))
			for _, e := range row.ID.Params {
				params[e.Key] = e.Value
			}
			counts = append(counts, QueryCount{
				SearchType: Kind(row.ID.Type),
				Params:     params,
				Count:      row.Count,
			})
		}
		if err := cur.Err(); err != nil {
			return errors.Errorf("cursor err: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// TopKeywords groups keyword-search entries by keyword alone.
func (s *MongoStore) TopKeywords(ctx context.Context, limit int) (counts []KeywordCount, err error) {
	ctx, span := startSpan(ctx, "store.mongo.TopKeywords", "mongodb")
	defer func() { endSpan(span, err) }()

	err = s.withCollection(ctx, func(ctx context.Context, coll *mongo.Collection) error {
		cur, err := coll.Aggregate(ctx, topKeywordsPipeline(limit))
		if err != nil {
			return errors.Errorf("aggregate top keywords: %w", err)
		}
		defer func() { _ = cur.Close(ctx) }()

		for cur.Next(ctx) {
			var row struct {
				ID    string `bson:"_id"`
				Count int    `bson:"count"`
			}
			if err := cur.Decode(&row); err != nil {
				return errors.Errorf("decode top keyword: %w", err)
			}
			counts = append(counts, KeywordCount{Keyword: row.ID, Count: row.Count})
		}
		if err := cur.Err(); err != nil {
			return errors.Errorf("cursor err: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func entryDocument(entry Entry, now func() time.Time) bson.D {
	ts := entry.Timestamp
	if ts.IsZero() {
		ts = now()
	}
	return bson.D{
		{Key: "_id", Value: entry.ID},
		{Key: "timestamp", Value: ts},
		{Key: "search_type", Value: string(entry.SearchType)},
		{Key: "params", Value: sortedParams(entry.Params)},
		{Key: "results_count", Value: entry.ResultsCount},
	}
}

// sortedParams orders params by key. $group compares embedded documents
// field by field, so equal parameter sets must be stored in the same order.
func sortedParams(params map[string]any) bson.D {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := make(bson.D, 0, len(keys))
	for _, k := range keys {
		d = append(d, bson.E{Key: k, Value: params[k]})
	}
	return d
}

func topQueriesPipeline(limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "type", Value: "$search_type"},
				{Key: "params", Value: "$params"},
			}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}
}

func topKeywordsPipeline(limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "search_type", Value: string(KindKeyword)}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$params.keyword"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}
}
