// Package mongo loads entity records from a MongoDB database, one
// collection per entity type.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/blattwerk/blattwerk/pkg/catalog"
	"github.com/blattwerk/blattwerk/pkg/errors"
	"github.com/blattwerk/blattwerk/pkg/source"
)

// Collection names per entity type.
const (
	CollStrains    = "strains"
	CollProducts   = "products"
	CollPharmacies = "pharmacies"
	CollCities     = "cities"
	CollBrands     = "brands"
	CollTerpenes   = "terpenes"
	CollCategories = "categories"
	CollOffers     = "offers"
)

// Store reads record collections from one database.
type Store struct {
	uri      string
	database string
	client   *mongo.Client
}

// New creates a store without connecting. The first Load dials.
func New(uri, database string) *Store {
	return &Store{uri: uri, database: database}
}

// Name identifies the source in logs.
func (s *Store) Name() string {
	return fmt.Sprintf("mongo:%s", s.database)
}

// Load connects on first use and reads every collection.
func (s *Store) Load(ctx context.Context) (catalog.Records, error) {
	var records catalog.Records

	if s.client == nil {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.uri))
		if err != nil {
			return records, errors.Wrap(errors.ErrCodeSourceConnect, err, "connecting to %s", s.uri)
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(ctx)
			return records, errors.Wrap(errors.ErrCodeSourceConnect, err, "pinging %s", s.uri)
		}
		s.client = client
	}
	db := s.client.Database(s.database)

	if err := loadAll(ctx, db, CollStrains, &records.Strains); err != nil {
		return records, err
	}
	if err := loadAll(ctx, db, CollProducts, &records.Products); err != nil {
		return records, err
	}
	if err := loadAll(ctx, db, CollPharmacies, &records.Pharmacies); err != nil {
		return records, err
	}
	if err := loadAll(ctx, db, CollCities, &records.Cities); err != nil {
		return records, err
	}
	if err := loadAll(ctx, db, CollBrands, &records.Brands); err != nil {
		return records, err
	}
	if err := loadAll(ctx, db, CollTerpenes, &records.Terpenes); err != nil {
		return records, err
	}
	if err := loadAll(ctx, db, CollCategories, &records.Categories); err != nil {
		return records, err
	}
	if err := loadAll(ctx, db, CollOffers, &records.Offers); err != nil {
		return records, err
	}
	return records, nil
}

// Close disconnects the client if a connection was made.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	err := s.client.Disconnect(ctx)
	s.client = nil
	return err
}

// loadAll reads one full collection into out.
func loadAll[T any](ctx context.Context, db *mongo.Database, name string, out *[]T) error {
	cursor, err := db.Collection(name).Find(ctx, bson.D{})
	if err != nil {
		return errors.Wrap(errors.ErrCodeSource, err, "querying %s", name)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return errors.Wrap(errors.ErrCodeSourceDecode, err, "decoding %s", name)
	}
	return nil
}

var _ source.Source = (*Store)(nil)
