package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Member struct {
	ID              primitive.ObjectID
	Type            MemberType
	Status          MemberStatus
	AuthType        MemberAuthType
	Phone           string
	Nick            string
	Password        string // bcrypt hash, stripped from every outbound snapshot
	FullName        string
	Image           string
	Address         string
	Desc            string
	PropertiesCount int
	ArticlesCount   int
	FollowersCount  int
	FollowingsCount int
	PointsCount     int
	LikesCount      int
	ViewsCount      int
	CommentsCount   int
	Rank            int
	WarningsCount   int
	BlocksCount     int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time

	// AccessToken is attached on signup/login and never persisted.
	AccessToken string
}

// MemberInput is the validated payload for signUp. Validation itself is the
// transport layer's job; the usecase trusts these fields.
type MemberInput struct {
	Nick     string
	Password string
	Phone    string
	Type     MemberType
	AuthType MemberAuthType
}

type LoginInput struct {
	Nick     string
	Password string
}

// MemberUpdate is a partial update; nil fields are left untouched.
type MemberUpdate struct {
	ID       primitive.ObjectID
	Status   *MemberStatus
	Type     *MemberType
	Phone    *string
	Nick     *string
	Password *string
	FullName *string
	Image    *string
	Address  *string
	Desc     *string
}

// AgentsInquiry drives the public agent directory listing.
type AgentsInquiry struct {
	Page      int
	Limit     int
	Sort      string
	Direction Direction
	Text      string
}

// MembersInquiry drives the admin member directory listing.
type MembersInquiry struct {
	Page      int
	Limit     int
	Sort      string
	Direction Direction
	Status    *MemberStatus
	Type      *MemberType
	Text      string
}

type Members struct {
	List  []*Member
	Total int64
}
