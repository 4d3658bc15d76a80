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

const membersCollectionName = "members"

type memberDocument struct {
	ID         primitive.ObjectID    `bson:"_id,omitempty"`
	Type       entity.MemberType     `bson:"member_type"`
	Status     entity.MemberStatus   `bson:"member_status"`
	AuthType   entity.MemberAuthType `bson:"member_auth_type"`
	Phone      string                `bson:"member_phone"`
	Nick       string                `bson:"member_nick"`
	Password   string                `bson:"member_password,omitempty"`
	FullName   string                `bson:"member_full_name,omitempty"`
	Image      string                `bson:"member_image,omitempty"`
	Address    string                `bson:"member_address,omitempty"`
	Desc       string                `bson:"member_desc,omitempty"`
	Properties int                   `bson:"member_properties"`
	Articles   int                   `bson:"member_articles"`
	Followers  int                   `bson:"member_followers"`
	Followings int                   `bson:"member_followings"`
	Points     int                   `bson:"member_points"`
	Likes      int                   `bson:"member_likes"`
	Views      int                   `bson:"member_views"`
	Comments   int                   `bson:"member_comments"`
	Rank       int                   `bson:"member_rank"`
	Warnings   int                   `bson:"member_warnings"`
	Blocks     int                   `bson:"member_blocks"`
	CreatedAt  time.Time             `bson:"created_at"`
	UpdatedAt  time.Time             `bson:"updated_at"`
	DeletedAt  *time.Time            `bson:"deleted_at,omitempty"`
}

func (m *memberDocument) toEntity() *entity.Member {
	return &entity.Member{
		ID:              m.ID,
		Type:            m.Type,
		Status:          m.Status,
		AuthType:        m.AuthType,
		Phone:           m.Phone,
		Nick:            m.Nick,
		Password:        m.Password,
		FullName:        m.FullName,
		Image:           m.Image,
		Address:         m.Address,
		Desc:            m.Desc,
		PropertiesCount: m.Properties,
		ArticlesCount:   m.Articles,
		FollowersCount:  m.Followers,
		FollowingsCount: m.Followings,
		PointsCount:     m.Points,
		LikesCount:      m.Likes,
		ViewsCount:      m.Views,
		CommentsCount:   m.Comments,
		Rank:            m.Rank,
		WarningsCount:   m.Warnings,
		BlocksCount:     m.Blocks,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		DeletedAt:       m.DeletedAt,
	}
}

func fromMemberEntity(e *entity.Member) *memberDocument {
	return &memberDocument{
		ID:         e.ID,
		Type:       e.Type,
		Status:     e.Status,
		AuthType:   e.AuthType,
		Phone:      e.Phone,
		Nick:       e.Nick,
		Password:   e.Password,
		FullName:   e.FullName,
		Image:      e.Image,
		Address:    e.Address,
		Desc:       e.Desc,
		Properties: e.PropertiesCount,
		Articles:   e.ArticlesCount,
		Followers:  e.FollowersCount,
		Followings: e.FollowingsCount,
		Points:     e.PointsCount,
		Likes:      e.LikesCount,
		Views:      e.ViewsCount,
		Comments:   e.CommentsCount,
		Rank:       e.Rank,
		Warnings:   e.WarningsCount,
		Blocks:     e.BlocksCount,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
		DeletedAt:  e.DeletedAt,
	}
}

var memberCounterFields = map[entity.MemberCounter]struct{}{
	entity.CounterMemberProperties: {},
	entity.CounterMemberArticles:   {},
	entity.CounterMemberFollowers:  {},
	entity.CounterMemberFollowings: {},
	entity.CounterMemberPoints:     {},
	entity.CounterMemberLikes:      {},
	entity.CounterMemberViews:      {},
	entity.CounterMemberComments:   {},
	entity.CounterMemberRank:       {},
	entity.CounterMemberWarnings:   {},
	entity.CounterMemberBlocks:     {},
}

type MemberRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

func NewMemberRepository(db *mongo.Database, logger *zap.Logger) *MemberRepository {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := db.Collection(membersCollectionName)
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "member_nick", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "member_phone", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Warn("Failed to create indexes for members collection (may already exist)", zap.Error(err))
	}

	return &MemberRepository{
		collection: collection,
		logger:     logger.Named("MemberRepository"),
	}
}

func (r *MemberRepository) Create(ctx context.Context, member *entity.Member) error {
	doc := fromMemberEntity(member)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Duplicate nick or phone during member creation", zap.String("nick", member.Nick))
			return repository.ErrDuplicate
		}
		r.logger.Error("Database error during member creation", zap.String("nick", member.Nick), zap.Error(err))
		return err
	}

	member.ID = doc.ID
	member.CreatedAt = doc.CreatedAt
	member.UpdatedAt = doc.UpdatedAt
	r.logger.Info("Member created", zap.String("memberID", doc.ID.Hex()))
	return nil
}

func (r *MemberRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Member, error) {
	var doc memberDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		r.logger.Error("Database error fetching member by ID", zap.String("memberID", id.Hex()), zap.Error(err))
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *MemberRepository) FindByNick(ctx context.Context, nick string) (*entity.Member, error) {
	var doc memberDocument
	err := r.collection.FindOne(ctx, bson.M{"member_nick": nick}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		r.logger.Error("Database error fetching member by nick", zap.String("nick", nick), zap.Error(err))
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *MemberRepository) Update(ctx context.Context, update entity.MemberUpdate, requireStatus ...entity.MemberStatus) (*entity.Member, error) {
	filter := bson.M{"_id": update.ID}
	if len(requireStatus) > 0 {
		filter["member_status"] = bson.M{"$in": requireStatus}
	}

	set := bson.M{"updated_at": time.Now()}
	if update.Status != nil {
		set["member_status"] = *update.Status
		if *update.Status == entity.MemberStatusDelete {
			set["deleted_at"] = time.Now()
		}
	}
	if update.Type != nil {
		set["member_type"] = *update.Type
	}
	if update.Phone != nil {
		set["member_phone"] = *update.Phone
	}
	if update.Nick != nil {
		set["member_nick"] = *update.Nick
	}
	if update.Password != nil {
		set["member_password"] = *update.Password
	}
	if update.FullName != nil {
		set["member_full_name"] = *update.FullName
	}
	if update.Image != nil {
		set["member_image"] = *update.Image
	}
	if update.Address != nil {
		set["member_address"] = *update.Address
	}
	if update.Desc != nil {
		set["member_desc"] = *update.Desc
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc memberDocument
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Duplicate nick or phone during member update", zap.String("memberID", update.ID.Hex()))
			return nil, repository.ErrDuplicate
		}
		r.logger.Error("Database error during member update", zap.String("memberID", update.ID.Hex()), zap.Error(err))
		return nil, err
	}
	r.logger.Info("Member updated", zap.String("memberID", update.ID.Hex()))
	return doc.toEntity(), nil
}

// AdjustCounter is the single entry point for mutating member counters.
// The field is validated against the closed counter set before the $inc.
func (r *MemberRepository) AdjustCounter(ctx context.Context, id primitive.ObjectID, field entity.MemberCounter, delta int) (*entity.Member, error) {
	if _, ok := memberCounterFields[field]; !ok {
		return nil, repository.ErrInvalidCounter
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$inc": bson.M{string(field): delta}}

	var doc memberDocument
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Warn("Member not found for counter adjustment", zap.String("memberID", id.Hex()), zap.String("field", string(field)))
			return nil, repository.ErrNotFound
		}
		r.logger.Error("Database error adjusting member counter", zap.String("memberID", id.Hex()), zap.Error(err))
		return nil, err
	}
	return doc.toEntity(), nil
}

type memberFacetResult struct {
	List        []*memberDocument `bson:"list"`
	MetaCounter []facetMeta       `bson:"metaCounter"`
}

func (r *MemberRepository) Search(ctx context.Context, filter entity.MemberFilter) ([]*entity.Member, int64, error) {
	match := bson.D{}
	if len(filter.Statuses) > 0 {
		match = append(match, bson.E{Key: "member_status", Value: bson.M{"$in": filter.Statuses}})
	}
	if len(filter.Types) > 0 {
		match = append(match, bson.E{Key: "member_type", Value: bson.M{"$in": filter.Types}})
	}
	if filter.Text != "" {
		match = append(match, regexMatch("member_nick", filter.Text))
	}

	allowed := memberSortFields
	if len(filter.Types) == 1 && filter.Types[0] == entity.MemberTypeAgent {
		allowed = agentSortFields
	}
	sortField, sortDir := resolveSort(filter.Sort, filter.Direction, allowed)

	pipeline := facetPipeline(match, sortField, sortDir, filter.Page, filter.Limit, nil)
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("Database error during member search", zap.Error(err))
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var results []memberFacetResult
	if err := cursor.All(ctx, &results); err != nil {
		r.logger.Error("Failed to decode member search result", zap.Error(err))
		return nil, 0, err
	}
	if len(results) == 0 {
		return nil, 0, nil
	}

	members := make([]*entity.Member, 0, len(results[0].List))
	for _, doc := range results[0].List {
		member := doc.toEntity()
		member.Password = ""
		members = append(members, member)
	}

	var total int64
	if len(results[0].MetaCounter) > 0 {
		total = results[0].MetaCounter[0].Total
	}
	return members, total, nil
}
