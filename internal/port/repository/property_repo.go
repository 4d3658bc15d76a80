package repository

import (
	"context"

	"github.com/husanahmedov/nestar/internal/entity"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PropertyRepository interface {
	Create(ctx context.Context, property *entity.Property) error

	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Property, error)

	// FindActiveByID returns an ACTIVE property enriched with the owner's
	// public profile and, when viewerID is set, the viewer's MeLiked
	// projection.
	FindActiveByID(ctx context.Context, id primitive.ObjectID, viewerID *primitive.ObjectID) (*entity.Property, error)

	// UpdateOwned applies a partial update restricted to the owning member
	// and currently ACTIVE documents, returning the post-update snapshot.
	UpdateOwned(ctx context.Context, ownerID primitive.ObjectID, update entity.PropertyUpdate) (*entity.Property, error)

	AdjustCounter(ctx context.Context, id primitive.ObjectID, field entity.PropertyCounter, delta int) (*entity.Property, error)

	Search(ctx context.Context, filter entity.PropertyFilter) ([]*entity.Property, int64, error)
}
