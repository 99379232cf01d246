// Package scans keeps an audit trail of batch scan runs in Mongo. The trail
// is advisory: ingestion works without it, and every writer nil-checks the
// connection so a deployment without Mongo simply skips auditing.
package scans

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mg "zaireen_import/internal/config/connections/mongo"
)

const ScanRecordsCollection = "scan_records"

type RejectedFile struct {
	Filename string `bson:"filename" json:"filename"`
	Reason   string `bson:"reason" json:"reason"`
}

// Record is one audit entry: the outcome of a single batch scan run.
type Record struct {
	ID        any            `bson:"_id" json:"id"`
	UserID    *string        `bson:"user_id,omitempty" json:"user_id,omitempty"`
	KaflaCode string         `bson:"kafla_code" json:"kafla_code"`
	Accepted  int            `bson:"accepted" json:"accepted"`
	Rejected  []RejectedFile `bson:"rejected" json:"rejected"`
	Status    string         `bson:"status" json:"status"`
	CreatedAt time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time      `bson:"updated_at" json:"updated_at"`
}

func Insert(ctx context.Context, m *mg.Mongo, rec Record) (*mongo.InsertOneResult, error) {
	if m == nil || m.Client == nil || m.Database == nil {
		return nil, mongo.ErrClientDisconnected
	}

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	if rec.Status == "" {
		rec.Status = "scanned"
	}
	if rec.Rejected == nil {
		rec.Rejected = []RejectedFile{}
	}

	doc := bson.D{
		{Key: "user_id", Value: rec.UserID},
		{Key: "kafla_code", Value: rec.KaflaCode},
		{Key: "accepted", Value: rec.Accepted},
		{Key: "rejected", Value: rec.Rejected},
		{Key: "status", Value: rec.Status},
		{Key: "created_at", Value: rec.CreatedAt},
		{Key: "updated_at", Value: rec.UpdatedAt},
	}

	return m.Database.Collection(ScanRecordsCollection).InsertOne(ctx, doc, options.InsertOne())
}

func FindByID(ctx context.Context, m *mg.Mongo, id string) (Record, error) {
	var out Record
	if m == nil || m.Database == nil {
		return out, mongo.ErrClientDisconnected
	}
	coll := m.Database.Collection(ScanRecordsCollection)

	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		if err := coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&out); err == nil {
			out.ID = oid
			return out, nil
		}
	}
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&out); err != nil {
		return out, fmt.Errorf("scan record not found: %w", err)
	}
	out.ID = id
	return out, nil
}

// ListByKafla returns the most recent audit entries for one kafla.
func ListByKafla(ctx context.Context, m *mg.Mongo, kaflaCode string, limit int64) ([]Record, error) {
	if m == nil || m.Database == nil {
		return nil, mongo.ErrClientDisconnected
	}
	coll := m.Database.Collection(ScanRecordsCollection)

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := coll.Find(ctx, bson.M{"kafla_code": kaflaCode}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	recs := make([]Record, 0)
	for cur.Next(ctx) {
		var r Record
		if err := cur.Decode(&r); err != nil {
			continue
		}
		recs = append(recs, r)
	}
	return recs, cur.Err()
}
