package repository

import (
	"context"

	"github.com/husanahmedov/nestar/internal/entity"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ViewRepository interface {
	// Insert records a view; ErrDuplicate means this viewer already has a
	// view on the target and no write happened. The unique index on
	// (member_id, view_ref_id) is the authoritative existence check.
	Insert(ctx context.Context, view *entity.View) error

	// VisitedProperties pages through the properties the member has viewed,
	// newest view first, returning the page and the total visited count.
	VisitedProperties(ctx context.Context, memberID primitive.ObjectID, page, limit int) ([]*entity.Property, int64, error)
}

type LikeRepository interface {
	// Insert creates the like; ErrDuplicate signals a lost race with a
	// concurrent toggle on the same (member_id, like_ref_id) pair.
	Insert(ctx context.Context, like *entity.Like) error

	// Delete removes the member's like on refID; the bool reports whether a
	// record actually existed.
	Delete(ctx context.Context, memberID, refID primitive.ObjectID) (bool, error)

	// FindOne returns the like record or ErrNotFound.
	FindOne(ctx context.Context, memberID, refID primitive.ObjectID) (*entity.Like, error)

	// FavoriteProperties pages through the properties the member currently
	// likes, newest like first.
	FavoriteProperties(ctx context.Context, memberID primitive.ObjectID, page, limit int) ([]*entity.Property, int64, error)
}
