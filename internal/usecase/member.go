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

type MemberUsecase struct {
	members    repository.MemberRepository
	auth       *AuthUsecase
	engagement *EngagementUsecase
	publisher  messaging.Publisher
	logger     *zap.Logger
}

func NewMemberUsecase(
	members repository.MemberRepository,
	auth *AuthUsecase,
	engagement *EngagementUsecase,
	publisher messaging.Publisher,
	logger *zap.Logger,
) *MemberUsecase {
	return &MemberUsecase{
		members:    members,
		auth:       auth,
		engagement: engagement,
		publisher:  publisher,
		logger:     logger.Named("MemberUsecase"),
	}
}

// SignUp creates a member with a hashed credential and a fresh session
// token attached; the hash never leaves the usecase.
func (uc *MemberUsecase) SignUp(ctx context.Context, input entity.MemberInput) (*entity.Member, error) {
	hashed, err := uc.auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	memberType := input.Type
	if memberType == "" {
		memberType = entity.MemberTypeUser
	}
	authType := input.AuthType
	if authType == "" {
		authType = entity.MemberAuthPhone
	}

	member := &entity.Member{
		Type:     memberType,
		Status:   entity.MemberStatusActive,
		AuthType: authType,
		Phone:    input.Phone,
		Nick:     input.Nick,
		Password: hashed,
	}

	if err := uc.members.Create(ctx, member); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			uc.logger.Warn("Signup rejected on duplicate nick or phone", zap.String("nick", input.Nick))
			return nil, ErrCreateFailed
		}
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	token, err := uc.auth.CreateToken(ctx, member)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	member.AccessToken = token
	member.Password = ""

	if uc.publisher != nil {
		if err := uc.publisher.PublishMemberSignup(ctx, member); err != nil {
			uc.logger.Warn("Failed to publish signup event", zap.Error(err))
		}
	}

	uc.logger.Info("Member signed up", zap.String("memberID", member.ID.Hex()), zap.String("nick", member.Nick))
	return member, nil
}

// Login authenticates by nick and issues a fresh session token.
func (uc *MemberUsecase) Login(ctx context.Context, input entity.LoginInput) (*entity.Member, error) {
	member, err := uc.members.FindByNick(ctx, input.Nick)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoSuchMember
		}
		return nil, fmt.Errorf("failed to look up member: %w", err)
	}

	switch member.Status {
	case entity.MemberStatusDelete:
		return nil, ErrNoSuchMember
	case entity.MemberStatusBlock:
		return nil, ErrBlockedUser
	}

	if !uc.auth.ComparePassword(input.Password, member.Password) {
		return nil, ErrWrongPassword
	}

	token, err := uc.auth.CreateToken(ctx, member)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	member.AccessToken = token
	member.Password = ""

	uc.logger.Info("Member logged in", zap.String("memberID", member.ID.Hex()))
	return member, nil
}

func (uc *MemberUsecase) Logout(ctx context.Context, memberID primitive.ObjectID) error {
	return uc.auth.Logout(ctx, memberID)
}

// UpdateSelf applies a partial update to the caller's own ACTIVE profile.
func (uc *MemberUsecase) UpdateSelf(ctx context.Context, memberID primitive.ObjectID, update entity.MemberUpdate) (*entity.Member, error) {
	update.ID = memberID

	if update.Password != nil {
		hashed, err := uc.auth.HashPassword(*update.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		update.Password = &hashed
	}

	member, err := uc.members.Update(ctx, update, entity.MemberStatusActive)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUpdateFailed
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUpdateFailed
		}
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	member.Password = ""
	return member, nil
}

// UpdateByAdmin applies a partial update to any member regardless of status.
func (uc *MemberUsecase) UpdateByAdmin(ctx context.Context, actor *entity.Member, update entity.MemberUpdate) (*entity.Member, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	member, err := uc.members.Update(ctx, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUpdateFailed
		}
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	member.Password = ""
	return member, nil
}

// GetMember returns an ACTIVE or BLOCK member. A distinct viewer records a
// view; only a genuinely new record bumps the view counter, and the
// post-increment snapshot is what the caller gets back.
func (uc *MemberUsecase) GetMember(ctx context.Context, viewerID *primitive.ObjectID, targetID primitive.ObjectID) (*entity.Member, error) {
	target, err := uc.members.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoSuchMember
		}
		return nil, fmt.Errorf("failed to fetch member: %w", err)
	}
	if target.Status == entity.MemberStatusDelete {
		return nil, ErrNoSuchMember
	}
	target.Password = ""

	if viewerID != nil && *viewerID != targetID {
		view, err := uc.engagement.RecordView(ctx, *viewerID, entity.ViewGroupMember, targetID)
		if err != nil {
			uc.logger.Warn("Failed to record member view", zap.String("targetID", targetID.Hex()), zap.Error(err))
		} else if view != nil {
			updated, err := uc.members.AdjustCounter(ctx, targetID, entity.CounterMemberViews, 1)
			if err != nil {
				uc.logger.Warn("View recorded but counter adjustment failed", zap.String("targetID", targetID.Hex()), zap.Error(err))
			} else {
				updated.Password = ""
				target = updated
			}
		}
	}
	return target, nil
}

// GetAgents lists ACTIVE agents through the shared aggregation engine.
func (uc *MemberUsecase) GetAgents(ctx context.Context, inquiry entity.AgentsInquiry) (*entity.Members, error) {
	filter := entity.MemberFilter{
		Page:      inquiry.Page,
		Limit:     inquiry.Limit,
		Sort:      inquiry.Sort,
		Direction: inquiry.Direction,
		Statuses:  []entity.MemberStatus{entity.MemberStatusActive},
		Types:     []entity.MemberType{entity.MemberTypeAgent},
		Text:      inquiry.Text,
	}

	list, total, err := uc.members.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search agents: %w", err)
	}
	if total == 0 {
		return nil, ErrNoDataFound
	}
	return &entity.Members{List: list, Total: total}, nil
}

// GetAllMembersByAdmin lists members across any status/type for moderation.
func (uc *MemberUsecase) GetAllMembersByAdmin(ctx context.Context, actor *entity.Member, inquiry entity.MembersInquiry) (*entity.Members, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	filter := entity.MemberFilter{
		Page:      inquiry.Page,
		Limit:     inquiry.Limit,
		Sort:      inquiry.Sort,
		Direction: inquiry.Direction,
		Text:      inquiry.Text,
	}
	if inquiry.Status != nil {
		filter.Statuses = []entity.MemberStatus{*inquiry.Status}
	}
	if inquiry.Type != nil {
		filter.Types = []entity.MemberType{*inquiry.Type}
	}

	list, total, err := uc.members.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search members: %w", err)
	}
	if total == 0 {
		return nil, ErrNoDataFound
	}
	return &entity.Members{List: list, Total: total}, nil
}

// LikeTargetMember toggles the caller's like on another member and moves
// the target's like counter by the toggle modifier.
func (uc *MemberUsecase) LikeTargetMember(ctx context.Context, memberID, refID primitive.ObjectID) (*entity.Member, error) {
	target, err := uc.members.FindByID(ctx, refID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoSuchMember
		}
		return nil, fmt.Errorf("failed to fetch member: %w", err)
	}
	if target.Status != entity.MemberStatusActive {
		return nil, ErrNoSuchMember
	}

	modifier, err := uc.engagement.ToggleLike(ctx, memberID, entity.LikeGroupMember, refID)
	if err != nil {
		return nil, err
	}

	updated, err := uc.members.AdjustCounter(ctx, refID, entity.CounterMemberLikes, modifier)
	if err != nil {
		return nil, fmt.Errorf("like toggled but counter adjustment failed: %w", err)
	}
	updated.Password = ""
	return updated, nil
}
