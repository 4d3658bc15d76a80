package usecase

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/husanahmedov/nestar/internal/entity"
	"github.com/husanahmedov/nestar/internal/port/cache"
)

// memberClaims carries the member snapshot inside the session token.
// The password hash is deliberately absent.
type memberClaims struct {
	MemberID        string                `json:"memberId"`
	Type            entity.MemberType     `json:"memberType"`
	Status          entity.MemberStatus   `json:"memberStatus"`
	AuthType        entity.MemberAuthType `json:"memberAuthType"`
	Phone           string                `json:"memberPhone"`
	Nick            string                `json:"memberNick"`
	FullName        string                `json:"memberFullName,omitempty"`
	Image           string                `json:"memberImage,omitempty"`
	Address         string                `json:"memberAddress,omitempty"`
	Desc            string                `json:"memberDesc,omitempty"`
	PropertiesCount int                   `json:"memberProperties"`
	ArticlesCount   int                   `json:"memberArticles"`
	FollowersCount  int                   `json:"memberFollowers"`
	FollowingsCount int                   `json:"memberFollowings"`
	PointsCount     int                   `json:"memberPoints"`
	LikesCount      int                   `json:"memberLikes"`
	ViewsCount      int                   `json:"memberViews"`
	CommentsCount   int                   `json:"memberComments"`
	Rank            int                   `json:"memberRank"`
	WarningsCount   int                   `json:"memberWarnings"`
	BlocksCount     int                   `json:"memberBlocks"`
	jwt.RegisteredClaims
}

type AuthUsecase struct {
	secret []byte
	ttl    time.Duration
	tokens cache.TokenCache
	logger *zap.Logger
}

func NewAuthUsecase(secret string, ttl time.Duration, tokens cache.TokenCache, logger *zap.Logger) *AuthUsecase {
	return &AuthUsecase{
		secret: []byte(secret),
		ttl:    ttl,
		tokens: tokens,
		logger: logger.Named("AuthUsecase"),
	}
}

func (u *AuthUsecase) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword reports whether password matches the stored hash; a
// malformed hash compares as false, it never fails loudly.
func (u *AuthUsecase) ComparePassword(password, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

// CreateToken signs a fresh session token embedding the member snapshot
// minus the credential hash, and caches it for later revocation.
func (u *AuthUsecase) CreateToken(ctx context.Context, member *entity.Member) (string, error) {
	now := time.Now()
	claims := memberClaims{
		MemberID:        member.ID.Hex(),
		Type:            member.Type,
		Status:          member.Status,
		AuthType:        member.AuthType,
		Phone:           member.Phone,
		Nick:            member.Nick,
		FullName:        member.FullName,
		Image:           member.Image,
		Address:         member.Address,
		Desc:            member.Desc,
		PropertiesCount: member.PropertiesCount,
		ArticlesCount:   member.ArticlesCount,
		FollowersCount:  member.FollowersCount,
		FollowingsCount: member.FollowingsCount,
		PointsCount:     member.PointsCount,
		LikesCount:      member.LikesCount,
		ViewsCount:      member.ViewsCount,
		CommentsCount:   member.CommentsCount,
		Rank:            member.Rank,
		WarningsCount:   member.WarningsCount,
		BlocksCount:     member.BlocksCount,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   member.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(u.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(u.secret)
	if err != nil {
		return "", err
	}

	if u.tokens != nil {
		if err := u.tokens.Set(ctx, member.ID.Hex(), token, u.ttl); err != nil {
			u.logger.Warn("Failed to cache session token", zap.String("memberID", member.ID.Hex()), zap.Error(err))
		}
	}
	return token, nil
}

// VerifyToken validates signature and expiry and rebuilds the embedded
// member snapshot, normalizing the hex id back into an ObjectID.
func (u *AuthUsecase) VerifyToken(ctx context.Context, token string) (*entity.Member, error) {
	var claims memberClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return u.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	id, err := primitive.ObjectIDFromHex(claims.MemberID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &entity.Member{
		ID:              id,
		Type:            claims.Type,
		Status:          claims.Status,
		AuthType:        claims.AuthType,
		Phone:           claims.Phone,
		Nick:            claims.Nick,
		FullName:        claims.FullName,
		Image:           claims.Image,
		Address:         claims.Address,
		Desc:            claims.Desc,
		PropertiesCount: claims.PropertiesCount,
		ArticlesCount:   claims.ArticlesCount,
		FollowersCount:  claims.FollowersCount,
		FollowingsCount: claims.FollowingsCount,
		PointsCount:     claims.PointsCount,
		LikesCount:      claims.LikesCount,
		ViewsCount:      claims.ViewsCount,
		CommentsCount:   claims.CommentsCount,
		Rank:            claims.Rank,
		WarningsCount:   claims.WarningsCount,
		BlocksCount:     claims.BlocksCount,
	}, nil
}

// Logout revokes the member's cached session token.
func (u *AuthUsecase) Logout(ctx context.Context, memberID primitive.ObjectID) error {
	if u.tokens == nil {
		return nil
	}
	return u.tokens.Del(ctx, memberID.Hex())
}
