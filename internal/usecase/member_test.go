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

type memberTestDeps struct {
	members *MockMemberRepository
	views   *MockViewRepository
	likes   *MockLikeRepository
	uc      *MemberUsecase
	auth    *AuthUsecase
}

func newMemberTestDeps() *memberTestDeps {
	members := new(MockMemberRepository)
	views := new(MockViewRepository)
	likes := new(MockLikeRepository)
	auth := NewAuthUsecase("test-secret", time.Hour, nil, zap.NewNop())
	engagement := NewEngagementUsecase(views, likes, nil, zap.NewNop())
	return &memberTestDeps{
		members: members,
		views:   views,
		likes:   likes,
		auth:    auth,
		uc:      NewMemberUsecase(members, auth, engagement, nil, zap.NewNop()),
	}
}

func TestSignUp_Succeeds(t *testing.T) {
	deps := newMemberTestDeps()

	deps.members.On("Create", mock.Anything, mock.AnythingOfType("*entity.Member")).
		Run(func(args mock.Arguments) {
			member := args.Get(1).(*entity.Member)
			member.ID = primitive.NewObjectID()
		}).Return(nil)

	member, err := deps.uc.SignUp(context.Background(), entity.MemberInput{
		Nick:     "alice",
		Password: "secret123",
		Phone:    "+1000000000",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.MemberStatusActive, member.Status)
	assert.Equal(t, entity.MemberTypeUser, member.Type)
	assert.NotEmpty(t, member.AccessToken)
	assert.Empty(t, member.Password, "credential hash must be absent from the signup output")
}

func TestSignUp_DuplicateNickFails(t *testing.T) {
	deps := newMemberTestDeps()

	deps.members.On("Create", mock.Anything, mock.AnythingOfType("*entity.Member")).
		Return(repository.ErrDuplicate)

	_, err := deps.uc.SignUp(context.Background(), entity.MemberInput{
		Nick:     "alice",
		Password: "secret123",
		Phone:    "+1000000000",
	})
	assert.ErrorIs(t, err, ErrCreateFailed)
}

func loginFixture(t *testing.T, auth *AuthUsecase, status entity.MemberStatus) *entity.Member {
	t.Helper()
	hashed, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	return &entity.Member{
		ID:       primitive.NewObjectID(),
		Nick:     "alice",
		Password: hashed,
		Status:   status,
		Type:     entity.MemberTypeUser,
	}
}

func TestLogin_Succeeds(t *testing.T) {
	deps := newMemberTestDeps()
	stored := loginFixture(t, deps.auth, entity.MemberStatusActive)

	deps.members.On("FindByNick", mock.Anything, "alice").Return(stored, nil)

	member, err := deps.uc.Login(context.Background(), entity.LoginInput{Nick: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, member.AccessToken)
	assert.Empty(t, member.Password)
}

func TestLogin_WrongPassword(t *testing.T) {
	deps := newMemberTestDeps()
	stored := loginFixture(t, deps.auth, entity.MemberStatusActive)

	deps.members.On("FindByNick", mock.Anything, "alice").Return(stored, nil)

	member, err := deps.uc.Login(context.Background(), entity.LoginInput{Nick: "alice", Password: "bad-guess"})
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.Nil(t, member, "no token may be issued on a failed login")
}

func TestLogin_BlockedMember(t *testing.T) {
	deps := newMemberTestDeps()
	stored := loginFixture(t, deps.auth, entity.MemberStatusBlock)

	deps.members.On("FindByNick", mock.Anything, "alice").Return(stored, nil)

	_, err := deps.uc.Login(context.Background(), entity.LoginInput{Nick: "alice", Password: "secret123"})
	assert.ErrorIs(t, err, ErrBlockedUser)
}

func TestLogin_DeletedMemberLooksAbsent(t *testing.T) {
	deps := newMemberTestDeps()
	stored := loginFixture(t, deps.auth, entity.MemberStatusDelete)

	deps.members.On("FindByNick", mock.Anything, "alice").Return(stored, nil)

	_, err := deps.uc.Login(context.Background(), entity.LoginInput{Nick: "alice", Password: "secret123"})
	assert.ErrorIs(t, err, ErrNoSuchMember)
}

func TestLogin_UnknownNick(t *testing.T) {
	deps := newMemberTestDeps()

	deps.members.On("FindByNick", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)

	_, err := deps.uc.Login(context.Background(), entity.LoginInput{Nick: "ghost", Password: "secret123"})
	assert.ErrorIs(t, err, ErrNoSuchMember)
}

func TestGetMember_DistinctViewerBumpsCounterOnce(t *testing.T) {
	deps := newMemberTestDeps()

	viewer := primitive.NewObjectID()
	targetID := primitive.NewObjectID()
	target := &entity.Member{ID: targetID, Status: entity.MemberStatusActive, ViewsCount: 0}
	bumped := &entity.Member{ID: targetID, Status: entity.MemberStatusActive, ViewsCount: 1}

	deps.members.On("FindByID", mock.Anything, targetID).Return(target, nil).Twice()
	deps.views.On("Insert", mock.Anything, mock.AnythingOfType("*entity.View")).Return(nil).Once()
	deps.views.On("Insert", mock.Anything, mock.AnythingOfType("*entity.View")).Return(repository.ErrDuplicate).Once()
	deps.members.On("AdjustCounter", mock.Anything, targetID, entity.CounterMemberViews, 1).Return(bumped, nil).Once()

	first, err := deps.uc.GetMember(context.Background(), &viewer, targetID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ViewsCount, "caller must see the incremented snapshot immediately")

	second, err := deps.uc.GetMember(context.Background(), &viewer, targetID)
	require.NoError(t, err)
	assert.Equal(t, 0, second.ViewsCount)

	deps.members.AssertNumberOfCalls(t, "AdjustCounter", 1)
}

func TestGetMember_SelfViewRecordsNothing(t *testing.T) {
	deps := newMemberTestDeps()

	targetID := primitive.NewObjectID()
	target := &entity.Member{ID: targetID, Status: entity.MemberStatusActive}

	deps.members.On("FindByID", mock.Anything, targetID).Return(target, nil)

	_, err := deps.uc.GetMember(context.Background(), &targetID, targetID)
	require.NoError(t, err)
	deps.views.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestGetMember_DeletedMemberIsHidden(t *testing.T) {
	deps := newMemberTestDeps()

	targetID := primitive.NewObjectID()
	deps.members.On("FindByID", mock.Anything, targetID).
		Return(&entity.Member{ID: targetID, Status: entity.MemberStatusDelete}, nil)

	_, err := deps.uc.GetMember(context.Background(), nil, targetID)
	assert.ErrorIs(t, err, ErrNoSuchMember)
}

func TestGetAgents_EmptyResultIsNoDataFound(t *testing.T) {
	deps := newMemberTestDeps()

	deps.members.On("Search", mock.Anything, mock.AnythingOfType("entity.MemberFilter")).
		Return(nil, int64(0), nil)

	_, err := deps.uc.GetAgents(context.Background(), entity.AgentsInquiry{Page: 1, Limit: 10})
	assert.ErrorIs(t, err, ErrNoDataFound)
}

func TestGetAgents_FiltersToActiveAgents(t *testing.T) {
	deps := newMemberTestDeps()

	agents := []*entity.Member{{ID: primitive.NewObjectID(), Type: entity.MemberTypeAgent}}
	deps.members.On("Search", mock.Anything, mock.MatchedBy(func(f entity.MemberFilter) bool {
		return len(f.Types) == 1 && f.Types[0] == entity.MemberTypeAgent &&
			len(f.Statuses) == 1 && f.Statuses[0] == entity.MemberStatusActive
	})).Return(agents, int64(1), nil)

	result, err := deps.uc.GetAgents(context.Background(), entity.AgentsInquiry{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
}

func TestGetAllMembersByAdmin_RequiresAdmin(t *testing.T) {
	deps := newMemberTestDeps()

	user := &entity.Member{ID: primitive.NewObjectID(), Type: entity.MemberTypeUser}
	_, err := deps.uc.GetAllMembersByAdmin(context.Background(), user, entity.MembersInquiry{Page: 1, Limit: 10})
	assert.ErrorIs(t, err, ErrNotAllowed)
	deps.members.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestLikeTargetMember_TogglesCounter(t *testing.T) {
	deps := newMemberTestDeps()

	member := primitive.NewObjectID()
	targetID := primitive.NewObjectID()
	target := &entity.Member{ID: targetID, Status: entity.MemberStatusActive, LikesCount: 0}
	liked := &entity.Member{ID: targetID, Status: entity.MemberStatusActive, LikesCount: 1}

	deps.members.On("FindByID", mock.Anything, targetID).Return(target, nil)
	deps.likes.On("Delete", mock.Anything, member, targetID).Return(false, nil).Once()
	deps.likes.On("Insert", mock.Anything, mock.AnythingOfType("*entity.Like")).Return(nil).Once()
	deps.members.On("AdjustCounter", mock.Anything, targetID, entity.CounterMemberLikes, 1).Return(liked, nil).Once()

	result, err := deps.uc.LikeTargetMember(context.Background(), member, targetID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.LikesCount)
}

func TestUpdateSelf_MissingMemberFails(t *testing.T) {
	deps := newMemberTestDeps()

	memberID := primitive.NewObjectID()
	nick := "renamed"
	deps.members.On("Update", mock.Anything, mock.AnythingOfType("entity.MemberUpdate"),
		[]entity.MemberStatus{entity.MemberStatusActive}).Return(nil, repository.ErrNotFound)

	_, err := deps.uc.UpdateSelf(context.Background(), memberID, entity.MemberUpdate{Nick: &nick})
	assert.ErrorIs(t, err, ErrUpdateFailed)
}
