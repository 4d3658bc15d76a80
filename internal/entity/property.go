package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Property struct {
	ID            primitive.ObjectID
	MemberID      primitive.ObjectID
	Type          PropertyType
	Status        PropertyStatus
	Location      PropertyLocation
	Address       string
	Title         string
	Price         float64
	Square        int
	Beds          int
	Rooms         int
	Views         int
	Likes         int
	Comments      int
	Rank          int
	Images        []string
	Desc          string
	Barter        bool
	Rent          bool
	ConstructedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	SoldAt        *time.Time
	DeletedAt     *time.Time

	// Read-side enrichment, never persisted on the property document.
	MemberData *Member
	MeLiked    []MeLiked
}

type PropertyInput struct {
	MemberID      primitive.ObjectID
	Type          PropertyType
	Location      PropertyLocation
	Address       string
	Title         string
	Price         float64
	Square        int
	Beds          int
	Rooms         int
	Images        []string
	Desc          string
	Barter        bool
	Rent          bool
	ConstructedAt *time.Time
}

type PropertyUpdate struct {
	ID       primitive.ObjectID
	Status   *PropertyStatus
	Type     *PropertyType
	Location *PropertyLocation
	Address  *string
	Title    *string
	Price    *float64
	Square   *int
	Beds     *int
	Rooms    *int
	Images   []string
	Desc     *string
	Barter   *bool
	Rent     *bool
}

// PropertiesInquiry drives the public property search.
type PropertiesInquiry struct {
	Page      int
	Limit     int
	Sort      string
	Direction Direction
	MemberID  *primitive.ObjectID
	Locations []PropertyLocation
	Types     []PropertyType
	Rooms     []int
	Beds      []int
	PriceMin  float64
	PriceMax  float64
	Text      string
}

// AgentPropertiesInquiry lists a single agent's own properties.
type AgentPropertiesInquiry struct {
	Page      int
	Limit     int
	Sort      string
	Direction Direction
	Status    *PropertyStatus
}

// AllPropertiesInquiry is the admin-side listing over any status/location.
type AllPropertiesInquiry struct {
	Page      int
	Limit     int
	Sort      string
	Direction Direction
	Status    *PropertyStatus
	Locations []PropertyLocation
}

// OrdinaryInquiry is plain page/limit paging (favorites, visited).
type OrdinaryInquiry struct {
	Page  int
	Limit int
}

type Properties struct {
	List  []*Property
	Total int64
}
