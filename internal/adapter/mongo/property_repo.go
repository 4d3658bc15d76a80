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

const propertiesCollectionName = "properties"

type propertyDocument struct {
	ID            primitive.ObjectID      `bson:"_id,omitempty"`
	MemberID      primitive.ObjectID      `bson:"member_id"`
	Type          entity.PropertyType     `bson:"property_type"`
	Status        entity.PropertyStatus   `bson:"property_status"`
	Location      entity.PropertyLocation `bson:"property_location"`
	Address       string                  `bson:"property_address"`
	Title         string                  `bson:"property_title"`
	Price         float64                 `bson:"property_price"`
	Square        int                     `bson:"property_square"`
	Beds          int                     `bson:"property_beds"`
	Rooms         int                     `bson:"property_rooms"`
	Views         int                     `bson:"property_views"`
	Likes         int                     `bson:"property_likes"`
	Comments      int                     `bson:"property_comments"`
	Rank          int                     `bson:"property_rank"`
	Images        []string                `bson:"property_images"`
	Desc          string                  `bson:"property_desc,omitempty"`
	Barter        bool                    `bson:"property_barter"`
	Rent          bool                    `bson:"property_rent"`
	ConstructedAt *time.Time              `bson:"constructed_at,omitempty"`
	CreatedAt     time.Time               `bson:"created_at"`
	UpdatedAt     time.Time               `bson:"updated_at"`
	SoldAt        *time.Time              `bson:"sold_at,omitempty"`
	DeletedAt     *time.Time              `bson:"deleted_at,omitempty"`

	// Populated by aggregation lookups only.
	MemberData *memberDocument `bson:"member_data,omitempty"`
	MeLiked    []likeDocument  `bson:"me_liked,omitempty"`
}

func (p *propertyDocument) toEntity() *entity.Property {
	property := &entity.Property{
		ID:            p.ID,
		MemberID:      p.MemberID,
		Type:          p.Type,
		Status:        p.Status,
		Location:      p.Location,
		Address:       p.Address,
		Title:         p.Title,
		Price:         p.Price,
		Square:        p.Square,
		Beds:          p.Beds,
		Rooms:         p.Rooms,
		Views:         p.Views,
		Likes:         p.Likes,
		Comments:      p.Comments,
		Rank:          p.Rank,
		Images:        p.Images,
		Desc:          p.Desc,
		Barter:        p.Barter,
		Rent:          p.Rent,
		ConstructedAt: p.ConstructedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		SoldAt:        p.SoldAt,
		DeletedAt:     p.DeletedAt,
	}
	if p.MemberData != nil {
		member := p.MemberData.toEntity()
		member.Password = ""
		property.MemberData = member
	}
	for _, liked := range p.MeLiked {
		property.MeLiked = append(property.MeLiked, entity.MeLiked{
			MemberID:   liked.MemberID,
			LikeRefID:  liked.RefID,
			MyFavorite: liked.MyFavorite,
		})
	}
	return property
}

func fromPropertyEntity(e *entity.Property) *propertyDocument {
	return &propertyDocument{
		ID:            e.ID,
		MemberID:      e.MemberID,
		Type:          e.Type,
		Status:        e.Status,
		Location:      e.Location,
		Address:       e.Address,
		Title:         e.Title,
		Price:         e.Price,
		Square:        e.Square,
		Beds:          e.Beds,
		Rooms:         e.Rooms,
		Views:         e.Views,
		Likes:         e.Likes,
		Comments:      e.Comments,
		Rank:          e.Rank,
		Images:        e.Images,
		Desc:          e.Desc,
		Barter:        e.Barter,
		Rent:          e.Rent,
		ConstructedAt: e.ConstructedAt,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
		SoldAt:        e.SoldAt,
		DeletedAt:     e.DeletedAt,
	}
}

var propertyCounterFields = map[entity.PropertyCounter]struct{}{
	entity.CounterPropertyViews:    {},
	entity.CounterPropertyLikes:    {},
	entity.CounterPropertyComments: {},
	entity.CounterPropertyRank:     {},
}

type PropertyRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

func NewPropertyRepository(db *mongo.Database, logger *zap.Logger) *PropertyRepository {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := db.Collection(propertiesCollectionName)
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "member_id", Value: 1}}},
		{Keys: bson.D{{Key: "property_status", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Warn("Failed to create indexes for properties collection (may already exist)", zap.Error(err))
	}

	return &PropertyRepository{
		collection: collection,
		logger:     logger.Named("PropertyRepository"),
	}
}

func (r *PropertyRepository) Create(ctx context.Context, property *entity.Property) error {
	doc := fromPropertyEntity(property)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if doc.Status == "" {
		doc.Status = entity.PropertyStatusActive
	}
	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		r.logger.Error("Database error during property creation", zap.String("title", property.Title), zap.Error(err))
		return err
	}

	property.ID = doc.ID
	property.Status = doc.Status
	property.CreatedAt = doc.CreatedAt
	property.UpdatedAt = doc.UpdatedAt
	r.logger.Info("Property created", zap.String("propertyID", doc.ID.Hex()), zap.String("memberID", doc.MemberID.Hex()))
	return nil
}

func (r *PropertyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Property, error) {
	var doc propertyDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		r.logger.Error("Database error fetching property by ID", zap.String("propertyID", id.Hex()), zap.Error(err))
		return nil, err
	}
	return doc.toEntity(), nil
}

// FindActiveByID fetches one ACTIVE property enriched with the owner's
// profile and the viewer's like, using the same lookups as Search.
func (r *PropertyRepository) FindActiveByID(ctx context.Context, id primitive.ObjectID, viewerID *primitive.ObjectID) (*entity.Property, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "property_status", Value: entity.PropertyStatusActive},
		}}},
	}
	pipeline = append(pipeline, lookupOwner()...)
	if viewerID != nil {
		pipeline = append(pipeline, lookupMeLiked(*viewerID)...)
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("Database error fetching property with meta", zap.String("propertyID", id.Hex()), zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*propertyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode property with meta", zap.String("propertyID", id.Hex()), zap.Error(err))
		return nil, err
	}
	if len(docs) == 0 {
		return nil, repository.ErrNotFound
	}
	return docs[0].toEntity(), nil
}

// UpdateOwned mutates a property only for its owner and only while it is
// still ACTIVE; a SOLD or DELETE transition stamps the matching timestamp.
func (r *PropertyRepository) UpdateOwned(ctx context.Context, ownerID primitive.ObjectID, update entity.PropertyUpdate) (*entity.Property, error) {
	filter := bson.M{
		"_id":             update.ID,
		"member_id":       ownerID,
		"property_status": entity.PropertyStatusActive,
	}

	now := time.Now()
	set := bson.M{"updated_at": now}
	if update.Status != nil {
		set["property_status"] = *update.Status
		switch *update.Status {
		case entity.PropertyStatusSold:
			set["sold_at"] = now
		case entity.PropertyStatusDelete:
			set["deleted_at"] = now
		}
	}
	if update.Type != nil {
		set["property_type"] = *update.Type
	}
	if update.Location != nil {
		set["property_location"] = *update.Location
	}
	if update.Address != nil {
		set["property_address"] = *update.Address
	}
	if update.Title != nil {
		set["property_title"] = *update.Title
	}
	if update.Price != nil {
		set["property_price"] = *update.Price
	}
	if update.Square != nil {
		set["property_square"] = *update.Square
	}
	if update.Beds != nil {
		set["property_beds"] = *update.Beds
	}
	if update.Rooms != nil {
		set["property_rooms"] = *update.Rooms
	}
	if update.Images != nil {
		set["property_images"] = update.Images
	}
	if update.Desc != nil {
		set["property_desc"] = *update.Desc
	}
	if update.Barter != nil {
		set["property_barter"] = *update.Barter
	}
	if update.Rent != nil {
		set["property_rent"] = *update.Rent
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc propertyDocument
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		r.logger.Error("Database error during property update", zap.String("propertyID", update.ID.Hex()), zap.Error(err))
		return nil, err
	}
	r.logger.Info("Property updated", zap.String("propertyID", update.ID.Hex()))
	return doc.toEntity(), nil
}

func (r *PropertyRepository) AdjustCounter(ctx context.Context, id primitive.ObjectID, field entity.PropertyCounter, delta int) (*entity.Property, error) {
	if _, ok := propertyCounterFields[field]; !ok {
		return nil, repository.ErrInvalidCounter
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$inc": bson.M{string(field): delta}}

	var doc propertyDocument
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Warn("Property not found for counter adjustment", zap.String("propertyID", id.Hex()), zap.String("field", string(field)))
			return nil, repository.ErrNotFound
		}
		r.logger.Error("Database error adjusting property counter", zap.String("propertyID", id.Hex()), zap.Error(err))
		return nil, err
	}
	return doc.toEntity(), nil
}

type propertyFacetResult struct {
	List        []*propertyDocument `bson:"list"`
	MetaCounter []facetMeta         `bson:"metaCounter"`
}

func (r *PropertyRepository) Search(ctx context.Context, filter entity.PropertyFilter) ([]*entity.Property, int64, error) {
	match := bson.D{}
	if filter.MemberID != nil {
		match = append(match, bson.E{Key: "member_id", Value: *filter.MemberID})
	}
	if len(filter.Statuses) > 0 {
		match = append(match, bson.E{Key: "property_status", Value: bson.M{"$in": filter.Statuses}})
	}
	if len(filter.Locations) > 0 {
		match = append(match, bson.E{Key: "property_location", Value: bson.M{"$in": filter.Locations}})
	}
	if len(filter.Types) > 0 {
		match = append(match, bson.E{Key: "property_type", Value: bson.M{"$in": filter.Types}})
	}
	if len(filter.Rooms) > 0 {
		match = append(match, bson.E{Key: "property_rooms", Value: bson.M{"$in": filter.Rooms}})
	}
	if len(filter.Beds) > 0 {
		match = append(match, bson.E{Key: "property_beds", Value: bson.M{"$in": filter.Beds}})
	}
	if filter.PriceMin > 0 || filter.PriceMax > 0 {
		price := bson.M{}
		if filter.PriceMin > 0 {
			price["$gte"] = filter.PriceMin
		}
		if filter.PriceMax > 0 {
			price["$lte"] = filter.PriceMax
		}
		match = append(match, bson.E{Key: "property_price", Value: price})
	}
	if filter.Text != "" {
		match = append(match, regexMatch("property_title", filter.Text))
	}

	sortField, sortDir := resolveSort(filter.Sort, filter.Direction, propertySortFields)

	enrich := lookupOwner()
	if filter.ViewerID != nil {
		enrich = append(enrich, lookupMeLiked(*filter.ViewerID)...)
	}

	pipeline := facetPipeline(match, sortField, sortDir, filter.Page, filter.Limit, enrich)
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("Database error during property search", zap.Error(err))
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var results []propertyFacetResult
	if err := cursor.All(ctx, &results); err != nil {
		r.logger.Error("Failed to decode property search result", zap.Error(err))
		return nil, 0, err
	}
	if len(results) == 0 {
		return nil, 0, nil
	}

	properties := make([]*entity.Property, 0, len(results[0].List))
	for _, doc := range results[0].List {
		properties = append(properties, doc.toEntity())
	}

	var total int64
	if len(results[0].MetaCounter) > 0 {
		total = results[0].MetaCounter[0].Total
	}
	return properties, total, nil
}
