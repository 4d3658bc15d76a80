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

type PropertyUsecase struct {
	properties repository.PropertyRepository
	members    repository.MemberRepository
	engagement *EngagementUsecase
	publisher  messaging.Publisher
	logger     *zap.Logger
}

func NewPropertyUsecase(
	properties repository.PropertyRepository,
	members repository.MemberRepository,
	engagement *EngagementUsecase,
	publisher messaging.Publisher,
	logger *zap.Logger,
) *PropertyUsecase {
	return &PropertyUsecase{
		properties: properties,
		members:    members,
		engagement: engagement,
		publisher:  publisher,
		logger:     logger.Named("PropertyUsecase"),
	}
}

// CreateProperty inserts the listing and bumps the owner's property count.
// The insert and the counter adjustment are separate store writes; a crash
// between them leaves the counter off by one (no reconciliation job).
func (uc *PropertyUsecase) CreateProperty(ctx context.Context, input entity.PropertyInput) (*entity.Property, error) {
	property := &entity.Property{
		MemberID:      input.MemberID,
		Type:          input.Type,
		Status:        entity.PropertyStatusActive,
		Location:      input.Location,
		Address:       input.Address,
		Title:         input.Title,
		Price:         input.Price,
		Square:        input.Square,
		Beds:          input.Beds,
		Rooms:         input.Rooms,
		Images:        input.Images,
		Desc:          input.Desc,
		Barter:        input.Barter,
		Rent:          input.Rent,
		ConstructedAt: input.ConstructedAt,
	}

	if err := uc.properties.Create(ctx, property); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCreateFailed
		}
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	if _, err := uc.members.AdjustCounter(ctx, input.MemberID, entity.CounterMemberProperties, 1); err != nil {
		return nil, fmt.Errorf("property created but counter adjustment failed: %w", err)
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishPropertyCreated(ctx, property); err != nil {
			uc.logger.Warn("Failed to publish property created event", zap.Error(err))
		}
	}

	uc.logger.Info("Property created", zap.String("propertyID", property.ID.Hex()))
	return property, nil
}

// GetProperty returns an ACTIVE property enriched with the owner's profile
// and the viewer's MeLiked projection. A known viewer records a view; only
// a genuinely new record bumps the view counter, reflected in the returned
// snapshot.
func (uc *PropertyUsecase) GetProperty(ctx context.Context, viewerID *primitive.ObjectID, propertyID primitive.ObjectID) (*entity.Property, error) {
	property, err := uc.properties.FindActiveByID(ctx, propertyID, viewerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoDataFound
		}
		return nil, fmt.Errorf("failed to fetch property: %w", err)
	}

	if viewerID != nil {
		view, err := uc.engagement.RecordView(ctx, *viewerID, entity.ViewGroupProperty, propertyID)
		if err != nil {
			uc.logger.Warn("Failed to record property view", zap.String("propertyID", propertyID.Hex()), zap.Error(err))
		} else if view != nil {
			updated, err := uc.properties.AdjustCounter(ctx, propertyID, entity.CounterPropertyViews, 1)
			if err != nil {
				uc.logger.Warn("View recorded but counter adjustment failed", zap.String("propertyID", propertyID.Hex()), zap.Error(err))
			} else {
				property.Views = updated.Views
			}
		}
	}
	return property, nil
}

// UpdateProperty mutates an ACTIVE property owned by the caller. A SOLD or
// DELETE transition stamps the matching timestamp in the repository and
// releases one slot from the owner's property count.
func (uc *PropertyUsecase) UpdateProperty(ctx context.Context, memberID primitive.ObjectID, update entity.PropertyUpdate) (*entity.Property, error) {
	property, err := uc.properties.UpdateOwned(ctx, memberID, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUpdateFailed
		}
		return nil, fmt.Errorf("failed to update property: %w", err)
	}

	if update.Status != nil &&
		(*update.Status == entity.PropertyStatusSold || *update.Status == entity.PropertyStatusDelete) {
		if _, err := uc.members.AdjustCounter(ctx, memberID, entity.CounterMemberProperties, -1); err != nil {
			uc.logger.Warn("Property transitioned but counter adjustment failed",
				zap.String("propertyID", update.ID.Hex()), zap.Error(err))
		}
	}
	return property, nil
}

// GetProperties is the public listing search over ACTIVE properties.
func (uc *PropertyUsecase) GetProperties(ctx context.Context, viewerID *primitive.ObjectID, inquiry entity.PropertiesInquiry) (*entity.Properties, error) {
	filter := entity.PropertyFilter{
		Page:      inquiry.Page,
		Limit:     inquiry.Limit,
		Sort:      inquiry.Sort,
		Direction: inquiry.Direction,
		MemberID:  inquiry.MemberID,
		Statuses:  []entity.PropertyStatus{entity.PropertyStatusActive},
		Locations: inquiry.Locations,
		Types:     inquiry.Types,
		Rooms:     inquiry.Rooms,
		Beds:      inquiry.Beds,
		PriceMin:  inquiry.PriceMin,
		PriceMax:  inquiry.PriceMax,
		Text:      inquiry.Text,
		ViewerID:  viewerID,
	}

	list, total, err := uc.properties.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}
	if total == 0 {
		return nil, ErrNoDataFound
	}
	return &entity.Properties{List: list, Total: total}, nil
}

// GetAgentProperties lists the agent's own properties; deleted listings
// are never exposed here.
func (uc *PropertyUsecase) GetAgentProperties(ctx context.Context, agentID primitive.ObjectID, inquiry entity.AgentPropertiesInquiry) (*entity.Properties, error) {
	statuses := []entity.PropertyStatus{entity.PropertyStatusActive, entity.PropertyStatusSold}
	if inquiry.Status != nil {
		if *inquiry.Status == entity.PropertyStatusDelete {
			return nil, ErrNotAllowed
		}
		statuses = []entity.PropertyStatus{*inquiry.Status}
	}

	filter := entity.PropertyFilter{
		Page:      inquiry.Page,
		Limit:     inquiry.Limit,
		Sort:      inquiry.Sort,
		Direction: inquiry.Direction,
		MemberID:  &agentID,
		Statuses:  statuses,
	}

	list, total, err := uc.properties.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search agent properties: %w", err)
	}
	if total == 0 {
		return nil, ErrNoDataFound
	}
	return &entity.Properties{List: list, Total: total}, nil
}

// GetAllPropertiesByAdmin lists properties across any status for moderation.
func (uc *PropertyUsecase) GetAllPropertiesByAdmin(ctx context.Context, actor *entity.Member, inquiry entity.AllPropertiesInquiry) (*entity.Properties, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	filter := entity.PropertyFilter{
		Page:      inquiry.Page,
		Limit:     inquiry.Limit,
		Sort:      inquiry.Sort,
		Direction: inquiry.Direction,
		Locations: inquiry.Locations,
	}
	if inquiry.Status != nil {
		filter.Statuses = []entity.PropertyStatus{*inquiry.Status}
	}

	list, total, err := uc.properties.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}
	if total == 0 {
		return nil, ErrNoDataFound
	}
	return &entity.Properties{List: list, Total: total}, nil
}

// LikeTargetProperty toggles the caller's like on an ACTIVE property and
// moves its like counter by the toggle modifier.
func (uc *PropertyUsecase) LikeTargetProperty(ctx context.Context, memberID, refID primitive.ObjectID) (*entity.Property, error) {
	target, err := uc.properties.FindByID(ctx, refID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoDataFound
		}
		return nil, fmt.Errorf("failed to fetch property: %w", err)
	}
	if target.Status != entity.PropertyStatusActive {
		return nil, ErrNoDataFound
	}

	modifier, err := uc.engagement.ToggleLike(ctx, memberID, entity.LikeGroupProperty, refID)
	if err != nil {
		return nil, err
	}

	updated, err := uc.properties.AdjustCounter(ctx, refID, entity.CounterPropertyLikes, modifier)
	if err != nil {
		return nil, fmt.Errorf("like toggled but counter adjustment failed: %w", err)
	}
	if modifier > 0 {
		updated.MeLiked = []entity.MeLiked{{MemberID: memberID, LikeRefID: refID, MyFavorite: true}}
	}
	return updated, nil
}
