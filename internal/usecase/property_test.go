package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/husanahmedov/nestar/internal/entity"
	"github.com/husanahmedov/nestar/internal/port/repository"
)

type propertyTestDeps struct {
	properties *MockPropertyRepository
	members    *MockMemberRepository
	views      *MockViewRepository
	likes      *MockLikeRepository
	uc         *PropertyUsecase
}

func newPropertyTestDeps() *propertyTestDeps {
	properties := new(MockPropertyRepository)
	members := new(MockMemberRepository)
	views := new(MockViewRepository)
	likes := new(MockLikeRepository)
	engagement := NewEngagementUsecase(views, likes, nil, zap.NewNop())
	return &propertyTestDeps{
		properties: properties,
		members:    members,
		views:      views,
		likes:      likes,
		uc:         NewPropertyUsecase(properties, members, engagement, nil, zap.NewNop()),
	}
}

func TestCreateProperty_BumpsOwnerCount(t *testing.T) {
	deps := newPropertyTestDeps()

	owner := primitive.NewObjectID()
	deps.properties.On("Create", mock.Anything, mock.AnythingOfType("*entity.Property")).
		Run(func(args mock.Arguments) {
			property := args.Get(1).(*entity.Property)
			property.ID = primitive.NewObjectID()
		}).Return(nil)
	deps.members.On("AdjustCounter", mock.Anything, owner, entity.CounterMemberProperties, 1).
		Return(&entity.Member{ID: owner, PropertiesCount: 1}, nil).Once()

	property, err := deps.uc.CreateProperty(context.Background(), entity.PropertyInput{
		MemberID: owner,
		Title:    "Riverside flat",
		Price:    250000,
		Images:   []string{"a.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PropertyStatusActive, property.Status)
	deps.members.AssertExpectations(t)
}

func TestUpdateProperty_SoldTransitionReleasesSlot(t *testing.T) {
	deps := newPropertyTestDeps()

	owner := primitive.NewObjectID()
	propertyID := primitive.NewObjectID()
	sold := entity.PropertyStatusSold
	now := time.Now()

	deps.properties.On("UpdateOwned", mock.Anything, owner, mock.AnythingOfType("entity.PropertyUpdate")).
		Return(&entity.Property{ID: propertyID, MemberID: owner, Status: sold, SoldAt: &now}, nil)
	deps.members.On("AdjustCounter", mock.Anything, owner, entity.CounterMemberProperties, -1).
		Return(&entity.Member{ID: owner}, nil).Once()

	property, err := deps.uc.UpdateProperty(context.Background(), owner, entity.PropertyUpdate{ID: propertyID, Status: &sold})
	require.NoError(t, err)
	assert.Equal(t, entity.PropertyStatusSold, property.Status)
	assert.NotNil(t, property.SoldAt)
	deps.members.AssertExpectations(t)
}

func TestUpdateProperty_PlainEditKeepsCount(t *testing.T) {
	deps := newPropertyTestDeps()

	owner := primitive.NewObjectID()
	propertyID := primitive.NewObjectID()
	price := 199000.0

	deps.properties.On("UpdateOwned", mock.Anything, owner, mock.AnythingOfType("entity.PropertyUpdate")).
		Return(&entity.Property{ID: propertyID, MemberID: owner, Status: entity.PropertyStatusActive, Price: price}, nil)

	_, err := deps.uc.UpdateProperty(context.Background(), owner, entity.PropertyUpdate{ID: propertyID, Price: &price})
	require.NoError(t, err)
	deps.members.AssertNotCalled(t, "AdjustCounter", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProperty_NotOwnerOrNotActiveFails(t *testing.T) {
	deps := newPropertyTestDeps()

	owner := primitive.NewObjectID()
	propertyID := primitive.NewObjectID()

	deps.properties.On("UpdateOwned", mock.Anything, owner, mock.AnythingOfType("entity.PropertyUpdate")).
		Return(nil, repository.ErrNotFound)

	_, err := deps.uc.UpdateProperty(context.Background(), owner, entity.PropertyUpdate{ID: propertyID})
	assert.ErrorIs(t, err, ErrUpdateFailed)
}

func TestGetProperty_RepeatViewCountsOnce(t *testing.T) {
	deps := newPropertyTestDeps()

	viewer := primitive.NewObjectID()
	propertyID := primitive.NewObjectID()

	deps.properties.On("FindActiveByID", mock.Anything, propertyID, &viewer).
		Return(&entity.Property{ID: propertyID, Status: entity.PropertyStatusActive}, nil).Once()
	deps.properties.On("FindActiveByID", mock.Anything, propertyID, &viewer).
		Return(&entity.Property{ID: propertyID, Status: entity.PropertyStatusActive}, nil).Once()
	deps.views.On("Insert", mock.Anything, mock.AnythingOfType("*entity.View")).Return(nil).Once()
	deps.views.On("Insert", mock.Anything, mock.AnythingOfType("*entity.View")).Return(repository.ErrDuplicate).Once()
	deps.properties.On("AdjustCounter", mock.Anything, propertyID, entity.CounterPropertyViews, 1).
		Return(&entity.Property{ID: propertyID, Status: entity.PropertyStatusActive, Views: 1}, nil).Once()

	first, err := deps.uc.GetProperty(context.Background(), &viewer, propertyID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Views)

	second, err := deps.uc.GetProperty(context.Background(), &viewer, propertyID)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Views)

	deps.properties.AssertNumberOfCalls(t, "AdjustCounter", 1)
}

func TestGetProperty_AnonymousViewerRecordsNothing(t *testing.T) {
	deps := newPropertyTestDeps()

	propertyID := primitive.NewObjectID()
	deps.properties.On("FindActiveByID", mock.Anything, propertyID, (*primitive.ObjectID)(nil)).
		Return(&entity.Property{ID: propertyID, Status: entity.PropertyStatusActive}, nil)

	_, err := deps.uc.GetProperty(context.Background(), nil, propertyID)
	require.NoError(t, err)
	deps.views.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestLikeTargetProperty_ToggleRoundTrip(t *testing.T) {
	deps := newPropertyTestDeps()

	member := primitive.NewObjectID()
	propertyID := primitive.NewObjectID()
	target := &entity.Property{ID: propertyID, Status: entity.PropertyStatusActive, Likes: 0}

	deps.properties.On("FindByID", mock.Anything, propertyID).Return(target, nil).Twice()
	deps.likes.On("Delete", mock.Anything, member, propertyID).Return(false, nil).Once()
	deps.likes.On("Insert", mock.Anything, mock.AnythingOfType("*entity.Like")).Return(nil).Once()
	deps.properties.On("AdjustCounter", mock.Anything, propertyID, entity.CounterPropertyLikes, 1).
		Return(&entity.Property{ID: propertyID, Status: entity.PropertyStatusActive, Likes: 1}, nil).Once()
	deps.likes.On("Delete", mock.Anything, member, propertyID).Return(true, nil).Once()
	deps.properties.On("AdjustCounter", mock.Anything, propertyID, entity.CounterPropertyLikes, -1).
		Return(&entity.Property{ID: propertyID, Status: entity.PropertyStatusActive, Likes: 0}, nil).Once()

	liked, err := deps.uc.LikeTargetProperty(context.Background(), member, propertyID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)
	assert.Len(t, liked.MeLiked, 1)

	unliked, err := deps.uc.LikeTargetProperty(context.Background(), member, propertyID)
	require.NoError(t, err)
	assert.Equal(t, 0, unliked.Likes)
	assert.Empty(t, unliked.MeLiked)
}

func TestGetProperties_EmptyResultIsNoDataFound(t *testing.T) {
	deps := newPropertyTestDeps()

	deps.properties.On("Search", mock.Anything, mock.AnythingOfType("entity.PropertyFilter")).
		Return(nil, int64(0), nil)

	_, err := deps.uc.GetProperties(context.Background(), nil, entity.PropertiesInquiry{Page: 1, Limit: 10})
	assert.ErrorIs(t, err, ErrNoDataFound)
}

func TestGetAgentProperties_DeletedStatusIsNotAllowed(t *testing.T) {
	deps := newPropertyTestDeps()

	agent := primitive.NewObjectID()
	deleted := entity.PropertyStatusDelete
	_, err := deps.uc.GetAgentProperties(context.Background(), agent, entity.AgentPropertiesInquiry{
		Page: 1, Limit: 10, Status: &deleted,
	})
	assert.ErrorIs(t, err, ErrNotAllowed)
	deps.properties.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestGetAllPropertiesByAdmin_RequiresAdmin(t *testing.T) {
	deps := newPropertyTestDeps()

	user := &entity.Member{ID: primitive.NewObjectID(), Type: entity.MemberTypeUser}
	_, err := deps.uc.GetAllPropertiesByAdmin(context.Background(), user, entity.AllPropertiesInquiry{Page: 1, Limit: 10})
	assert.ErrorIs(t, err, ErrNotAllowed)
}
