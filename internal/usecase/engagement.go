package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/husanahmedov/nestar/internal/entity"
	"github.com/husanahmedov/nestar/internal/port/messaging"
	"github.com/husanahmedov/nestar/internal/port/repository"
)

// EngagementUsecase owns the view and like record stores: idempotent view
// recording, toggle-based likes and the favorites/visited projections.
type EngagementUsecase struct {
	views     repository.ViewRepository
	likes     repository.LikeRepository
	publisher messaging.Publisher
	logger    *zap.Logger
}

func NewEngagementUsecase(views repository.ViewRepository, likes repository.LikeRepository, publisher messaging.Publisher, logger *zap.Logger) *EngagementUsecase {
	return &EngagementUsecase{
		views:     views,
		likes:     likes,
		publisher: publisher,
		logger:    logger.Named("EngagementUsecase"),
	}
}

// RecordView inserts a view record once per (viewer, target) pair. The
// non-nil result is the caller's only signal to bump a view counter; a
// repeat view returns (nil, nil) with no side effect.
func (uc *EngagementUsecase) RecordView(ctx context.Context, viewerID primitive.ObjectID, group entity.ViewGroup, refID primitive.ObjectID) (*entity.View, error) {
	view := &entity.View{
		MemberID: viewerID,
		Group:    group,
		RefID:    refID,
	}

	err := uc.views.Insert(ctx, view)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record view: %w", err)
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishView(ctx, view); err != nil {
			uc.logger.Warn("Failed to publish view event", zap.Error(err))
		}
	}
	return view, nil
}

// ToggleLike flips the like state for (member, ref): delete when present
// (-1), insert when absent (+1). A concurrent duplicate insert surfaces
// ErrCreateFailed so the caller can retry.
func (uc *EngagementUsecase) ToggleLike(ctx context.Context, memberID primitive.ObjectID, group entity.LikeGroup, refID primitive.ObjectID) (int, error) {
	deleted, err := uc.likes.Delete(ctx, memberID, refID)
	if err != nil {
		return 0, fmt.Errorf("failed to toggle like: %w", err)
	}

	like := &entity.Like{
		MemberID: memberID,
		Group:    group,
		RefID:    refID,
	}

	modifier := -1
	if !deleted {
		if err := uc.likes.Insert(ctx, like); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return 0, ErrCreateFailed
			}
			return 0, fmt.Errorf("failed to toggle like: %w", err)
		}
		modifier = 1
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishLike(ctx, like, modifier); err != nil {
			uc.logger.Warn("Failed to publish like event", zap.Error(err))
		}
	}
	return modifier, nil
}

func (uc *EngagementUsecase) HasLiked(ctx context.Context, memberID, refID primitive.ObjectID) (bool, error) {
	_, err := uc.likes.FindOne(ctx, memberID, refID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check like existence: %w", err)
	}
	return true, nil
}

// MeLiked returns the viewer-relative projection: a single-element slice
// when the member likes the target, empty otherwise.
func (uc *EngagementUsecase) MeLiked(ctx context.Context, memberID, refID primitive.ObjectID) ([]entity.MeLiked, error) {
	liked, err := uc.HasLiked(ctx, memberID, refID)
	if err != nil {
		return nil, err
	}
	if !liked {
		return []entity.MeLiked{}, nil
	}
	return []entity.MeLiked{{MemberID: memberID, LikeRefID: refID, MyFavorite: true}}, nil
}

// FavoritesOf pages through the properties the member currently likes.
func (uc *EngagementUsecase) FavoritesOf(ctx context.Context, memberID primitive.ObjectID, inquiry entity.OrdinaryInquiry) (*entity.Properties, error) {
	list, total, err := uc.likes.FavoriteProperties(ctx, memberID, inquiry.Page, inquiry.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch favorite properties: %w", err)
	}
	if total == 0 {
		return nil, ErrNoDataFound
	}
	return &entity.Properties{List: list, Total: total}, nil
}

// VisitedBy pages through the properties the member has viewed.
func (uc *EngagementUsecase) VisitedBy(ctx context.Context, memberID primitive.ObjectID, inquiry entity.OrdinaryInquiry) (*entity.Properties, error) {
	list, total, err := uc.views.VisitedProperties(ctx, memberID, inquiry.Page, inquiry.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch visited properties: %w", err)
	}
	if total == 0 {
		return nil, ErrNoDataFound
	}
	return &entity.Properties{List: list, Total: total}, nil
}
