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

type MemberRepository struct {
	db *mongo.Database
}

func NewMemberRepository(db *mongo.Database) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) collection() *mongo.Collection {
	return r.db.Collection("members")
}

// EnsureIndexes creates the unique uid index. Called once at startup.
func (r *MemberRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "uid", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *MemberRepository) Create(ctx context.Context, m *model.Member) error {
	res, err := r.collection().InsertOne(ctx, m)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return pkg.Wrap(pkg.ErrDuplicate, "member already exists")
		}
		return pkg.Wrap(pkg.ErrStoreUnavailable, err.Error())
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		m.ID = id
	}
	return nil
}

func (r *MemberRepository) FindByUID(ctx context.Context, uid string) (*model.Member, error) {
	var m model.Member
	if err := r.collection().FindOne(ctx, bson.M{"uid": uid}).Decode(&m); err != nil {
		return nil, mapErr(err, "member not found")
	}
	return &m, nil
}

func (r *MemberRepository) FindByUIDs(ctx context.Context, uids []string) ([]*model.Member, error) {
	if len(uids) == 0 {
		return nil, nil
	}
	cur, err := r.collection().Find(ctx, bson.M{"uid": bson.M{"$in": uids}})
	if err != nil {
		return nil, pkg.Wrap(pkg.ErrStoreUnavailable, err.Error())
	}
	var members []*model.Member
	if err := cur.All(ctx, &members); err != nil {
		return nil, pkg.Wrap(pkg.ErrStoreUnavailable, err.Error())
	}
	return members, nil
}

func (r *MemberRepository) List(ctx context.Context, search string, offset, limit int) ([]*model.Member, int64, error) {
	filter := bson.M{}
	if search != "" {
		filter = bson.M{"$or": bson.A{
			bson.M{"name": bson.M{"$regex": search, "$options": "i"}},
			bson.M{"email": bson.M{"$regex": search, "$options": "i"}},
		}}
	}

	total, err := r.collection().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, pkg.Wrap(pkg.ErrStoreUnavailable, err.Error())
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, pkg.Wrap(pkg.ErrStoreUnavailable, err.Error())
	}
	var members []*model.Member
	if err := cur.All(ctx, &members); err != nil {
		return nil, 0, pkg.Wrap(pkg.ErrStoreUnavailable, err.Error())
	}
	return members, total, nil
}

// UpdateByUID overwrites the allow-listed profile fields and returns the
// updated document.
func (r *MemberRepository) UpdateByUID(ctx context.Context, uid string, upd model.MemberUpdate) (*model.Member, error) {
	update := bson.M{"$set": bson.M{
		"name":        upd.Name,
		"email":       upd.Email,
		"role":        upd.Role,
		"avatar":      upd.Avatar,
		"bio":         upd.Bio,
		"skills":      upd.Skills,
		"projects":    upd.Projects,
		"socialLinks": upd.SocialLinks,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m model.Member
	if err := r.collection().FindOneAndUpdate(ctx, bson.M{"uid": uid}, update, opts).Decode(&m); err != nil {
		return nil, mapErr(err, "member not found")
	}
	return &m, nil
}
