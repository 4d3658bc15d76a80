package repository

import (
	"context"

	"github.com/husanahmedov/nestar/internal/entity"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MemberRepository interface {
	// Create inserts a new member; returns ErrDuplicate when the nick or
	// phone unique index is violated.
	Create(ctx context.Context, member *entity.Member) error

	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Member, error)

	// FindByNick returns the member including the password hash; it is the
	// only read that exposes the credential field.
	FindByNick(ctx context.Context, nick string) (*entity.Member, error)

	// Update applies a partial update and returns the post-update snapshot.
	// When requireStatus is non-empty the filter additionally demands the
	// current status to be one of them. Returns ErrNotFound when nothing
	// matched.
	Update(ctx context.Context, update entity.MemberUpdate, requireStatus ...entity.MemberStatus) (*entity.Member, error)

	// AdjustCounter atomically increments a single permitted counter field
	// and returns the post-update snapshot. This is the only way member
	// counters are mutated.
	AdjustCounter(ctx context.Context, id primitive.ObjectID, field entity.MemberCounter, delta int) (*entity.Member, error)

	// Search runs the shared match/sort/paginate/count aggregation and
	// returns one page plus the total matching-set size.
	Search(ctx context.Context, filter entity.MemberFilter) ([]*entity.Member, int64, error)
}
