package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// View records that a member has seen a target exactly once; the pair
// (MemberID, RefID) is unique for the lifetime of the record.
type View struct {
	ID        primitive.ObjectID
	MemberID  primitive.ObjectID
	Group     ViewGroup
	RefID     primitive.ObjectID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Like is toggle state: its presence means the member currently likes the
// target, repeated toggles create and delete the same (MemberID, RefID) pair.
type Like struct {
	ID        primitive.ObjectID
	MemberID  primitive.ObjectID
	Group     LikeGroup
	RefID     primitive.ObjectID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MeLiked is the viewer-relative projection attached to enriched rows.
type MeLiked struct {
	MemberID   primitive.ObjectID
	LikeRefID  primitive.ObjectID
	MyFavorite bool
}
