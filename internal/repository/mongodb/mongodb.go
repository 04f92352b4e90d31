package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"assochub/internal/pkg"
)

// Connect dials the document store and verifies it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}
	return client, nil
}

// mapErr translates driver errors into the application taxonomy: a missing
// document is NotFound, anything else means the store misbehaved.
func mapErr(err error, notFoundMsg string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return pkg.Wrap(pkg.ErrNotFound, notFoundMsg)
	}
	return pkg.Wrap(pkg.ErrStoreUnavailable, err.Error())
}
