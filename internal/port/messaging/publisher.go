package messaging

import (
	"context"

	"github.com/husanahmedov/nestar/internal/entity"
)

// Publisher emits best-effort domain events; usecases log failures and
// never fail a request over them.
type Publisher interface {
	PublishMemberSignup(ctx context.Context, member *entity.Member) error
	PublishPropertyCreated(ctx context.Context, property *entity.Property) error
	PublishView(ctx context.Context, view *entity.View) error
	PublishLike(ctx context.Context, like *entity.Like, modifier int) error
}
