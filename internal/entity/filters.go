package entity

import "go.mongodb.org/mongo-driver/bson/primitive"

// MemberFilter is the repository-level shape of a member directory query.
// Usecases translate the transport inquiries into it.
type MemberFilter struct {
	Page      int
	Limit     int
	Sort      string
	Direction Direction
	Statuses  []MemberStatus
	Types     []MemberType
	Text      string
}

// PropertyFilter is the repository-level shape of a property search.
// ViewerID, when set, makes the repository attach the viewer's MeLiked
// projection to every row.
type PropertyFilter struct {
	Page      int
	Limit     int
	Sort      string
	Direction Direction
	MemberID  *primitive.ObjectID
	Statuses  []PropertyStatus
	Locations []PropertyLocation
	Types     []PropertyType
	Rooms     []int
	Beds      []int
	PriceMin  float64
	PriceMax  float64
	Text      string
	ViewerID  *primitive.ObjectID
}
