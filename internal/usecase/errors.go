package usecase

import (
	"errors"

	"github.com/husanahmedov/nestar/internal/entity"
)

var (
	ErrNoDataFound   = errors.New("no data found")
	ErrCreateFailed  = errors.New("failed to create the resource")
	ErrUpdateFailed  = errors.New("failed to update the resource")
	ErrNoSuchMember  = errors.New("no member with the given identity")
	ErrBlockedUser   = errors.New("the member is blocked")
	ErrWrongPassword = errors.New("the password is incorrect")
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrNotAllowed    = errors.New("this request is not allowed")
)

// requireAdmin is the plain pre-condition guard for admin-only operations.
func requireAdmin(actor *entity.Member) error {
	if actor == nil || actor.Type != entity.MemberTypeAdmin {
		return ErrNotAllowed
	}
	return nil
}
