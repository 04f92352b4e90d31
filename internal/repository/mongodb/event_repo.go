package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"assochub/internal/model"
	"assochub/internal/pkg"
)

type EventRepository struct {
	db *mongo.Database
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) collection() *mongo.Collection {
	return r.db.Collection("events")
}

func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	res, err := r.collection().InsertOne(ctx, e)
	if err != nil {
		return pkg.Wrap(pkg.ErrStoreUnavailable, err.Error())
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		e.ID = id
	}
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Event, error) {
	var e model.Event
	if err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return nil, mapErr(err, "event not found")
	}
	return &e, nil
}

func (r *EventRepository) List(ctx context.Context, offset, limit int) ([]*model.Event, int64, error) {
	total, err := r.collection().CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, pkg.Wrap(pkg.ErrStoreUnavailable, err.Error())
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := r.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, pkg.Wrap(pkg.ErrStoreUnavailable, err.Error())
	}
	var events []*model.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, 0, pkg.Wrap(pkg.ErrStoreUnavailable, err.Error())
	}
	return events, total, nil
}

// AddAttendee appends the uid in a single guarded update: the filter only
// matches while the uid is absent and the list is below capacity, so two
// concurrent RSVPs cannot both get in past the limit. Returns nil when the
// guard did not match; the caller re-reads to tell why.
func (r *EventRepository) AddAttendee(ctx context.Context, id primitive.ObjectID, uid string) (*model.Event, error) {
	filter := bson.M{
		"_id":       id,
		"attendees": bson.M{"$ne": uid},
		"$expr": bson.M{"$lt": bson.A{
			bson.M{"$size": bson.M{"$ifNull": bson.A{"$attendees", bson.A{}}}},
			"$maxAttendees",
		}},
	}
	update := bson.M{"$addToSet": bson.M{"attendees": uid}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var e model.Event
	if err := r.collection().FindOneAndUpdate(ctx, filter, update, opts).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, pkg.Wrap(pkg.ErrStoreUnavailable, err.Error())
	}
	return &e, nil
}

// RemoveAttendee pulls the uid from the list. Removing an absent uid is a
// no-op that still succeeds.
func (r *EventRepository) RemoveAttendee(ctx context.Context, id primitive.ObjectID, uid string) (*model.Event, error) {
	update := bson.M{"$pull": bson.M{"attendees": uid}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var e model.Event
	if err := r.collection().FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&e); err != nil {
		return nil, mapErr(err, "event not found")
	}
	return &e, nil
}
