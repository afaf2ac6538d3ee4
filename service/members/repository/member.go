package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"retail_backoffice/pkg/apperr"
	"retail_backoffice/pkg/infra/database"
	"retail_backoffice/service/members/model/document"
)

var (
	ErrMemberNotFound = apperr.New(apperr.KindNotFound, "member not found")
	ErrEmailTaken     = apperr.New(apperr.KindConflict, "a member with this email already exists")
)

type IMemberRepository interface {
	Create(ctx context.Context, member *document.Member) error
	GetByID(ctx context.Context, id primitive.ObjectID) (document.Member, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (document.Member, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, role string, page, pageSize int) ([]document.Member, int64, error)
}

type memberRepository struct {
	coll *mongo.Collection
}

func NewMemberRepository(db *mongo.Database) IMemberRepository {
	return &memberRepository{coll: db.Collection(database.CollectionMembers)}
}

func MemberIndexes() database.IndexSpec {
	return database.IndexSpec{
		Collection: database.CollectionMembers,
		Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "uid", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "display_name", Value: 1}}},
		},
	}
}

func (r *memberRepository) Create(ctx context.Context, member *document.Member) error {
	res, err := r.coll.InsertOne(ctx, member)
	if mongo.IsDuplicateKeyError(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("insert member: %w", err)
	}
	member.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *memberRepository) GetByID(ctx context.Context, id primitive.ObjectID) (document.Member, error) {
	var member document.Member
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&member)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return document.Member{}, ErrMemberNotFound
	}
	if err != nil {
		return document.Member{}, fmt.Errorf("find member: %w", err)
	}
	return member, nil
}

func (r *memberRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (document.Member, error) {
	set["updated_at"] = time.Now().UTC()

	var member document.Member
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&member)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return document.Member{}, ErrMemberNotFound
	}
	if err != nil {
		return document.Member{}, fmt.Errorf("update member: %w", err)
	}
	return member, nil
}

func (r *memberRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *memberRepository) List(ctx context.Context, role string, page, pageSize int) ([]document.Member, int64, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count members: %w", err)
	}
	cursor, err := r.coll.Find(ctx, filter, database.Paginate(page, pageSize, bson.D{{Key: "display_name", Value: 1}}))
	if err != nil {
		return nil, 0, fmt.Errorf("list members: %w", err)
	}
	members := make([]document.Member, 0)
	if err := cursor.All(ctx, &members); err != nil {
		return nil, 0, fmt.Errorf("decode members: %w", err)
	}
	return members, total, nil
}
