package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"assochub/internal/model"
	"assochub/internal/pkg"
)

type PostRepository struct {
	db *mongo.Database
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) collection() *mongo.Collection {
	return r.db.Collection("posts")
}

// authorLookup resolves the post author into authorInfo, projected down to
// the display shape.
func authorLookup() bson.A {
	return bson.A{
		bson.M{"$lookup": bson.M{
			"from": "members",
			"let":  bson.M{"uid": "$author"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$uid", "$$uid"}}}},
				bson.M{"$project": bson.M{"_id": 0, "id": "$uid", "name": 1, "avatar": 1}},
			},
			"as": "authorInfo",
		}},
		bson.M{"$unwind": bson.M{
			"path":                       "$authorInfo",
			"preserveNullAndEmptyArrays": true,
		}},
	}
}

func (r *PostRepository) Create(ctx context.Context, p *model.Post) error {
	res, err := r.collection().InsertOne(ctx, p)
	if err != nil {
		return pkg.Wrap(pkg.ErrStoreUnavailable, err.Error())
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = id
	}
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	pipeline := append(bson.A{bson.M{"$match": bson.M{"_id": id}}}, authorLookup()...)

	cur, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, pkg.Wrap(pkg.ErrStoreUnavailable, err.Error())
	}
	var posts []*model.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, pkg.Wrap(pkg.ErrStoreUnavailable, err.Error())
	}
	if len(posts) == 0 {
		return nil, pkg.Wrap(pkg.ErrNotFound, "post not found")
	}
	return posts[0], nil
}

func (r *PostRepository) List(ctx context.Context, offset, limit int) ([]*model.Post, int64, error) {
	total, err := r.collection().CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, pkg.Wrap(pkg.ErrStoreUnavailable, err.Error())
	}

	pipeline := append(bson.A{
		bson.M{"$sort": bson.M{"createdAt": -1}},
		bson.M{"$skip": int64(offset)},
		bson.M{"$limit": int64(limit)},
	}, authorLookup()...)

	cur, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, pkg.Wrap(pkg.ErrStoreUnavailable, err.Error())
	}
	var posts []*model.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, 0, pkg.Wrap(pkg.ErrStoreUnavailable, err.Error())
	}
	return posts, total, nil
}

// AppendComment pushes the comment onto the post. Existing comments are
// never touched.
func (r *PostRepository) AppendComment(ctx context.Context, postID primitive.ObjectID, c *model.Comment) error {
	res, err := r.collection().UpdateOne(ctx, bson.M{"_id": postID}, bson.M{"$push": bson.M{"comments": c}})
	if err != nil {
		return pkg.Wrap(pkg.ErrStoreUnavailable, err.Error())
	}
	if res.MatchedCount == 0 {
		return pkg.Wrap(pkg.ErrNotFound, "post not found")
	}
	return nil
}

// IncrementLikes bumps the like counter and returns the new count.
func (r *PostRepository) IncrementLikes(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p model.Post
	err := r.collection().FindOneAndUpdate(ctx, bson.M{"_id": postID}, bson.M{"$inc": bson.M{"likes": 1}}, opts).Decode(&p)
	if err != nil {
		return 0, mapErr(err, "post not found")
	}
	return p.Likes, nil
}
