package contact

import (
	"context"
	"fmt"
	"strings"

	"storefront-be/internal/logger"
	"storefront-be/internal/notify"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, input CreateInput) (*Message, error)
	List(ctx context.Context) ([]*Message, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*Message, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	sink notify.Sink
}

func NewService(repo Repository, sink notify.Sink) Service {
	return &service{repo: repo, sink: sink}
}

// Create persists the message and notifies the store admin. The mail is
// dispatched after the insert and never fails the submission.
func (s *service) Create(ctx context.Context, input CreateInput) (*Message, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingField)
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, fmt.Errorf("%w: email", ErrMissingField)
	}
	if strings.TrimSpace(input.Subject) == "" {
		return nil, fmt.Errorf("%w: subject", ErrMissingField)
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, fmt.Errorf("%w: message", ErrMissingField)
	}

	m := &Message{
		ID:      uuid.New(),
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Subject: input.Subject,
		Message: input.Message,
	}

	if err := s.repo.Insert(ctx, m); err != nil {
		return nil, err
	}

	detached := context.WithoutCancel(ctx)
	go func() {
		err := s.sink.SendContactMessage(detached, notify.ContactMessage{
			Name:    m.Name,
			Email:   m.Email,
			Phone:   m.Phone,
			Subject: m.Subject,
			Message: m.Message,
		})
		if err != nil {
			logger.FromCtx(detached).Error("contact notification send failed", zap.Error(err))
		}
	}()

	return m, nil
}

func (s *service) List(ctx context.Context) ([]*Message, error) {
	return s.repo.List(ctx)
}

func (s *service) MarkRead(ctx context.Context, id uuid.UUID) (*Message, error) {
	return s.repo.MarkRead(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
