package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/husanahmedov/nestar/internal/entity"
	"github.com/husanahmedov/nestar/internal/port/repository"
)

const likesCollectionName = "likes"

type likeDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	MemberID  primitive.ObjectID `bson:"member_id"`
	Group     entity.LikeGroup   `bson:"like_group"`
	RefID     primitive.ObjectID `bson:"like_ref_id"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`

	// Set by the me_liked lookup projection only.
	MyFavorite bool `bson:"my_favorite,omitempty"`
}

func (l *likeDocument) toEntity() *entity.Like {
	return &entity.Like{
		ID:        l.ID,
		MemberID:  l.MemberID,
		Group:     l.Group,
		RefID:     l.RefID,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

type LikeRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

func NewLikeRepository(db *mongo.Database, logger *zap.Logger) *LikeRepository {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := db.Collection(likesCollectionName)
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "member_id", Value: 1}, {Key: "like_ref_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, index); err != nil {
		logger.Warn("Failed to create index for likes collection (may already exist)", zap.Error(err))
	}

	return &LikeRepository{
		collection: collection,
		logger:     logger.Named("LikeRepository"),
	}
}

func (r *LikeRepository) Insert(ctx context.Context, like *entity.Like) error {
	doc := &likeDocument{
		ID:        primitive.NewObjectID(),
		MemberID:  like.MemberID,
		Group:     like.Group,
		RefID:     like.RefID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Duplicate like insert lost a concurrent toggle",
				zap.String("memberID", like.MemberID.Hex()), zap.String("refID", like.RefID.Hex()))
			return repository.ErrDuplicate
		}
		r.logger.Error("Database error inserting like", zap.Error(err))
		return err
	}

	like.ID = doc.ID
	like.CreatedAt = doc.CreatedAt
	like.UpdatedAt = doc.UpdatedAt
	return nil
}

func (r *LikeRepository) Delete(ctx context.Context, memberID, refID primitive.ObjectID) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"member_id": memberID, "like_ref_id": refID})
	if err != nil {
		r.logger.Error("Database error deleting like",
			zap.String("memberID", memberID.Hex()), zap.String("refID", refID.Hex()), zap.Error(err))
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *LikeRepository) FindOne(ctx context.Context, memberID, refID primitive.ObjectID) (*entity.Like, error) {
	var doc likeDocument
	err := r.collection.FindOne(ctx, bson.M{"member_id": memberID, "like_ref_id": refID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		r.logger.Error("Database error fetching like", zap.Error(err))
		return nil, err
	}
	return doc.toEntity(), nil
}

type likedPropertyRow struct {
	MemberID primitive.ObjectID `bson:"member_id"`
	RefID    primitive.ObjectID `bson:"like_ref_id"`
	Property *propertyDocument  `bson:"favorite_property"`
}

type likedFacetResult struct {
	List        []likedPropertyRow `bson:"list"`
	MetaCounter []facetMeta        `bson:"metaCounter"`
}

// FavoriteProperties joins the member's PROPERTY likes against the
// properties collection, newest like first, one facet pass for page+total.
func (r *LikeRepository) FavoriteProperties(ctx context.Context, memberID primitive.ObjectID, page, limit int) ([]*entity.Property, int64, error) {
	match := bson.D{
		{Key: "member_id", Value: memberID},
		{Key: "like_group", Value: entity.LikeGroupProperty},
	}
	enrich := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: propertiesCollectionName},
			{Key: "localField", Value: "like_ref_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "favorite_property"},
		}}},
		{{Key: "$unwind", Value: "$favorite_property"}},
	}

	pipeline := facetPipeline(match, "updated_at", int(entity.DirectionDesc), page, limit, enrich)
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("Database error fetching favorite properties", zap.String("memberID", memberID.Hex()), zap.Error(err))
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var results []likedFacetResult
	if err := cursor.All(ctx, &results); err != nil {
		r.logger.Error("Failed to decode favorite properties", zap.Error(err))
		return nil, 0, err
	}
	if len(results) == 0 {
		return nil, 0, nil
	}

	properties := make([]*entity.Property, 0, len(results[0].List))
	for _, row := range results[0].List {
		if row.Property == nil {
			continue
		}
		property := row.Property.toEntity()
		property.MeLiked = []entity.MeLiked{{
			MemberID:   row.MemberID,
			LikeRefID:  row.RefID,
			MyFavorite: true,
		}}
		properties = append(properties, property)
	}

	var total int64
	if len(results[0].MetaCounter) > 0 {
		total = results[0].MetaCounter[0].Total
	}
	return properties, total, nil
}
