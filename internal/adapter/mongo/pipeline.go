package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/husanahmedov/nestar/internal/entity"
)

// Sort allow-lists per entity, keyed by the wire-form sort name. Anything
// outside the list falls back to createdAt.
var (
	agentSortFields = map[string]string{
		"createdAt":   "created_at",
		"memberNick":  "member_nick",
		"memberLikes": "member_likes",
		"memberViews": "member_views",
		"memberRank":  "member_rank",
	}
	memberSortFields = map[string]string{
		"createdAt":   "created_at",
		"memberNick":  "member_nick",
		"memberLikes": "member_likes",
		"memberViews": "member_views",
	}
	propertySortFields = map[string]string{
		"createdAt":     "created_at",
		"updatedAt":     "updated_at",
		"propertyPrice": "property_price",
		"propertyLikes": "property_likes",
		"propertyViews": "property_views",
		"propertyRank":  "property_rank",
	}
)

// resolveSort maps a wire-form sort name to its bson field using the given
// allow-list, defaulting to created_at descending.
func resolveSort(sort string, direction entity.Direction, allowed map[string]string) (string, int) {
	field, ok := allowed[sort]
	if !ok {
		field = "created_at"
	}
	dir := int(direction)
	if dir != int(entity.DirectionAsc) && dir != int(entity.DirectionDesc) {
		dir = int(entity.DirectionDesc)
	}
	return field, dir
}

func skipOf(page, limit int) int64 {
	if page < 1 {
		page = 1
	}
	return int64(page-1) * int64(limit)
}

// facetMeta is the shape of the $count facet.
type facetMeta struct {
	Total int64 `bson:"total"`
}

// facetPipeline produces the shared match → sort → paginate → join → count
// pipeline. The enrichment stages run only on the page slice, the count
// facet sees the bare match result.
func facetPipeline(match bson.D, sortField string, sortDir int, page, limit int, enrich mongo.Pipeline) mongo.Pipeline {
	list := bson.A{
		bson.D{{Key: "$skip", Value: skipOf(page, limit)}},
		bson.D{{Key: "$limit", Value: int64(limit)}},
	}
	for _, stage := range enrich {
		list = append(list, stage)
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: sortField, Value: sortDir}}}},
		{{Key: "$facet", Value: bson.D{
			{Key: "list", Value: list},
			{Key: "metaCounter", Value: bson.A{bson.D{{Key: "$count", Value: "total"}}}},
		}}},
	}
}

// lookupOwner joins the owning member's public profile onto each row.
func lookupOwner() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "members"},
			{Key: "localField", Value: "member_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "member_data"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$member_data"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

// lookupMeLiked joins the viewer's own like on each row so the caller can
// render a did-I-like flag.
func lookupMeLiked(viewerID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "likes"},
			{Key: "let", Value: bson.D{{Key: "refId", Value: "$_id"}}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{
					{Key: "$expr", Value: bson.D{{Key: "$and", Value: bson.A{
						bson.D{{Key: "$eq", Value: bson.A{"$like_ref_id", "$$refId"}}},
						bson.D{{Key: "$eq", Value: bson.A{"$member_id", viewerID}}},
					}}}},
				}}},
				bson.D{{Key: "$project", Value: bson.D{
					{Key: "_id", Value: 0},
					{Key: "member_id", Value: 1},
					{Key: "like_ref_id", Value: 1},
					{Key: "my_favorite", Value: bson.D{{Key: "$literal", Value: true}}},
				}}},
			}},
			{Key: "as", Value: "me_liked"},
		}}},
	}
}

// regexMatch builds a case-insensitive substring match on field.
func regexMatch(field, text string) bson.E {
	return bson.E{Key: field, Value: bson.D{
		{Key: "$regex", Value: text},
		{Key: "$options", Value: "i"},
	}}
}
