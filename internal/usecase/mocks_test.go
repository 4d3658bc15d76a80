package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/husanahmedov/nestar/internal/entity"
)

type MockMemberRepository struct{ mock.Mock }

func (m *MockMemberRepository) Create(ctx context.Context, member *entity.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Member), args.Error(1)
}

func (m *MockMemberRepository) FindByNick(ctx context.Context, nick string) (*entity.Member, error) {
	args := m.Called(ctx, nick)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Member), args.Error(1)
}

func (m *MockMemberRepository) Update(ctx context.Context, update entity.MemberUpdate, requireStatus ...entity.MemberStatus) (*entity.Member, error) {
	args := m.Called(ctx, update, requireStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Member), args.Error(1)
}

func (m *MockMemberRepository) AdjustCounter(ctx context.Context, id primitive.ObjectID, field entity.MemberCounter, delta int) (*entity.Member, error) {
	args := m.Called(ctx, id, field, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Member), args.Error(1)
}

func (m *MockMemberRepository) Search(ctx context.Context, filter entity.MemberFilter) ([]*entity.Member, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*entity.Member), args.Get(1).(int64), args.Error(2)
}

type MockPropertyRepository struct{ mock.Mock }

func (m *MockPropertyRepository) Create(ctx context.Context, property *entity.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindActiveByID(ctx context.Context, id primitive.ObjectID, viewerID *primitive.ObjectID) (*entity.Property, error) {
	args := m.Called(ctx, id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Property), args.Error(1)
}

func (m *MockPropertyRepository) UpdateOwned(ctx context.Context, ownerID primitive.ObjectID, update entity.PropertyUpdate) (*entity.Property, error) {
	args := m.Called(ctx, ownerID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Property), args.Error(1)
}

func (m *MockPropertyRepository) AdjustCounter(ctx context.Context, id primitive.ObjectID, field entity.PropertyCounter, delta int) (*entity.Property, error) {
	args := m.Called(ctx, id, field, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Property), args.Error(1)
}

func (m *MockPropertyRepository) Search(ctx context.Context, filter entity.PropertyFilter) ([]*entity.Property, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*entity.Property), args.Get(1).(int64), args.Error(2)
}

type MockViewRepository struct{ mock.Mock }

func (m *MockViewRepository) Insert(ctx context.Context, view *entity.View) error {
	args := m.Called(ctx, view)
	return args.Error(0)
}

func (m *MockViewRepository) VisitedProperties(ctx context.Context, memberID primitive.ObjectID, page, limit int) ([]*entity.Property, int64, error) {
	args := m.Called(ctx, memberID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*entity.Property), args.Get(1).(int64), args.Error(2)
}

type MockLikeRepository struct{ mock.Mock }

func (m *MockLikeRepository) Insert(ctx context.Context, like *entity.Like) error {
	args := m.Called(ctx, like)
	return args.Error(0)
}

func (m *MockLikeRepository) Delete(ctx context.Context, memberID, refID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, memberID, refID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeRepository) FindOne(ctx context.Context, memberID, refID primitive.ObjectID) (*entity.Like, error) {
	args := m.Called(ctx, memberID, refID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Like), args.Error(1)
}

func (m *MockLikeRepository) FavoriteProperties(ctx context.Context, memberID primitive.ObjectID, page, limit int) ([]*entity.Property, int64, error) {
	args := m.Called(ctx, memberID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*entity.Property), args.Get(1).(int64), args.Error(2)
}
