package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/husanahmedov/nestar/internal/config"
	"github.com/husanahmedov/nestar/internal/entity"
)

const (
	MemberSignupSubject    = "nestar.member.signup"
	PropertyCreatedSubject = "nestar.property.created"
	ViewRecordedSubject    = "nestar.engagement.view"
	LikeToggledSubject     = "nestar.engagement.like"
)

type Publisher struct {
	nc     *nats.Conn
	logger *zap.Logger
}

type event struct {
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

func NewNATSPublisher(cfg *config.NATSConfig, logger *zap.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.Timeout(cfg.ConnectTimeout),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Info("Successfully connected to NATS", zap.String("url", nc.ConnectedUrl()))

	return &Publisher{nc: nc, logger: logger.Named("Publisher")}, nil
}

func (p *Publisher) publish(subject string, payload any) error {
	data, err := json.Marshal(event{
		ID:         uuid.NewString(),
		OccurredAt: time.Now(),
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event for %s: %w", subject, err)
	}
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish NATS message for %s: %w", subject, err)
	}
	p.logger.Debug("Published NATS message", zap.String("subject", subject))
	return nil
}

func (p *Publisher) PublishMemberSignup(ctx context.Context, member *entity.Member) error {
	return p.publish(MemberSignupSubject, map[string]string{
		"member_id": member.ID.Hex(),
		"nick":      member.Nick,
		"type":      string(member.Type),
	})
}

func (p *Publisher) PublishPropertyCreated(ctx context.Context, property *entity.Property) error {
	return p.publish(PropertyCreatedSubject, map[string]string{
		"property_id": property.ID.Hex(),
		"member_id":   property.MemberID.Hex(),
		"title":       property.Title,
	})
}

func (p *Publisher) PublishView(ctx context.Context, view *entity.View) error {
	return p.publish(ViewRecordedSubject, map[string]string{
		"member_id": view.MemberID.Hex(),
		"group":     string(view.Group),
		"ref_id":    view.RefID.Hex(),
	})
}

func (p *Publisher) PublishLike(ctx context.Context, like *entity.Like, modifier int) error {
	return p.publish(LikeToggledSubject, map[string]any{
		"member_id": like.MemberID.Hex(),
		"group":     string(like.Group),
		"ref_id":    like.RefID.Hex(),
		"modifier":  modifier,
	})
}

func (p *Publisher) Close() {
	if p.nc != nil && !p.nc.IsClosed() {
		if err := p.nc.Drain(); err != nil {
			p.logger.Error("Error draining NATS connection", zap.Error(err))
		}
		p.nc.Close()
	}
}
