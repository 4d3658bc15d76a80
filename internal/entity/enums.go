package entity

type MemberType string

const (
	MemberTypeUser  MemberType = "USER"
	MemberTypeAgent MemberType = "AGENT"
	MemberTypeAdmin MemberType = "ADMIN"
)

type MemberStatus string

const (
	MemberStatusActive MemberStatus = "ACTIVE"
	MemberStatusBlock  MemberStatus = "BLOCK"
	MemberStatusDelete MemberStatus = "DELETE"
)

type MemberAuthType string

const (
	MemberAuthPhone    MemberAuthType = "PHONE"
	MemberAuthEmail    MemberAuthType = "EMAIL"
	MemberAuthTelegram MemberAuthType = "TELEGRAM"
)

type PropertyStatus string

const (
	PropertyStatusActive PropertyStatus = "ACTIVE"
	PropertyStatusSold   PropertyStatus = "SOLD"
	PropertyStatusDelete PropertyStatus = "DELETE"
)

type PropertyType string

const (
	PropertyTypeApartment PropertyType = "APARTMENT"
	PropertyTypeVilla     PropertyType = "VILLA"
	PropertyTypeHouse     PropertyType = "HOUSE"
)

type PropertyLocation string

const (
	LocationSeoul   PropertyLocation = "SEOUL"
	LocationBusan   PropertyLocation = "BUSAN"
	LocationIncheon PropertyLocation = "INCHEON"
	LocationDaegu   PropertyLocation = "DAEGU"
	LocationGyeongju PropertyLocation = "GYEONGJU"
	LocationGwangju PropertyLocation = "GWANGJU"
	LocationJeju    PropertyLocation = "JEJU"
)

// ViewGroup and LikeGroup name the collection a view/like target belongs to.
type ViewGroup string

const (
	ViewGroupMember   ViewGroup = "MEMBER"
	ViewGroupProperty ViewGroup = "PROPERTY"
	ViewGroupArticle  ViewGroup = "ARTICLE"
)

type LikeGroup string

const (
	LikeGroupMember   LikeGroup = "MEMBER"
	LikeGroupProperty LikeGroup = "PROPERTY"
	LikeGroupArticle  LikeGroup = "ARTICLE"
)

type Direction int

const (
	DirectionAsc  Direction = 1
	DirectionDesc Direction = -1
)

// MemberCounter and PropertyCounter are the closed sets of counter fields
// the stats mutator is allowed to touch. Values are bson field names.
type MemberCounter string

const (
	CounterMemberProperties MemberCounter = "member_properties"
	CounterMemberArticles   MemberCounter = "member_articles"
	CounterMemberFollowers  MemberCounter = "member_followers"
	CounterMemberFollowings MemberCounter = "member_followings"
	CounterMemberPoints     MemberCounter = "member_points"
	CounterMemberLikes      MemberCounter = "member_likes"
	CounterMemberViews      MemberCounter = "member_views"
	CounterMemberComments   MemberCounter = "member_comments"
	CounterMemberRank       MemberCounter = "member_rank"
	CounterMemberWarnings   MemberCounter = "member_warnings"
	CounterMemberBlocks     MemberCounter = "member_blocks"
)

type PropertyCounter string

const (
	CounterPropertyViews    PropertyCounter = "property_views"
	CounterPropertyLikes    PropertyCounter = "property_likes"
	CounterPropertyComments PropertyCounter = "property_comments"
	CounterPropertyRank     PropertyCounter = "property_rank"
)
