package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/husanahmedov/nestar/internal/entity"
	"github.com/husanahmedov/nestar/internal/port/repository"
)

const viewsCollectionName = "views"

type viewDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	MemberID  primitive.ObjectID `bson:"member_id"`
	Group     entity.ViewGroup   `bson:"view_group"`
	RefID     primitive.ObjectID `bson:"view_ref_id"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (v *viewDocument) toEntity() *entity.View {
	return &entity.View{
		ID:        v.ID,
		MemberID:  v.MemberID,
		Group:     v.Group,
		RefID:     v.RefID,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

type ViewRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

func NewViewRepository(db *mongo.Database, logger *zap.Logger) *ViewRepository {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := db.Collection(viewsCollectionName)
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "member_id", Value: 1}, {Key: "view_ref_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, index); err != nil {
		logger.Warn("Failed to create index for views collection (may already exist)", zap.Error(err))
	}

	return &ViewRepository{
		collection: collection,
		logger:     logger.Named("ViewRepository"),
	}
}

// Insert is a single atomic insert-or-fail; the unique index turns the
// old check-then-insert race into an ErrDuplicate the caller can trust.
func (r *ViewRepository) Insert(ctx context.Context, view *entity.View) error {
	doc := &viewDocument{
		ID:        primitive.NewObjectID(),
		MemberID:  view.MemberID,
		Group:     view.Group,
		RefID:     view.RefID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		r.logger.Error("Database error inserting view", zap.Error(err))
		return err
	}

	view.ID = doc.ID
	view.CreatedAt = doc.CreatedAt
	view.UpdatedAt = doc.UpdatedAt
	return nil
}

type visitedPropertyRow struct {
	Property *propertyDocument `bson:"visited_property"`
}

type visitedFacetResult struct {
	List        []visitedPropertyRow `bson:"list"`
	MetaCounter []facetMeta          `bson:"metaCounter"`
}

// VisitedProperties joins the member's PROPERTY views against the
// properties collection, most recent view first.
func (r *ViewRepository) VisitedProperties(ctx context.Context, memberID primitive.ObjectID, page, limit int) ([]*entity.Property, int64, error) {
	match := bson.D{
		{Key: "member_id", Value: memberID},
		{Key: "view_group", Value: entity.ViewGroupProperty},
	}
	enrich := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: propertiesCollectionName},
			{Key: "localField", Value: "view_ref_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "visited_property"},
		}}},
		{{Key: "$unwind", Value: "$visited_property"}},
	}

	pipeline := facetPipeline(match, "updated_at", int(entity.DirectionDesc), page, limit, enrich)
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("Database error fetching visited properties", zap.String("memberID", memberID.Hex()), zap.Error(err))
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var results []visitedFacetResult
	if err := cursor.All(ctx, &results); err != nil {
		r.logger.Error("Failed to decode visited properties", zap.Error(err))
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
		properties = append(properties, row.Property.toEntity())
	}

	var total int64
	if len(results[0].MetaCounter) > 0 {
		total = results[0].MetaCounter[0].Total
	}
	return properties, total, nil
}
