package contact

import (
	"context"
	"database/sql"

	"storefront-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	Insert(ctx context.Context, m *Message) error
	List(ctx context.Context) ([]*Message, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*Message, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, m *Message) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO contact_messages (id, name, email, phone, subject, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, m.ID, m.Name, m.Email, m.Phone, m.Subject, m.Message).Scan(&m.CreatedAt)

	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to insert contact message",
			zap.String("email", m.Email),
			zap.Error(err),
		)
	}
	return err
}

// List returns all messages newest-first.
func (r *repository) List(ctx context.Context) ([]*Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, phone, subject, message, is_read, created_at
		FROM contact_messages
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

func (r *repository) MarkRead(ctx context.Context, id uuid.UUID) (*Message, error) {
	var m Message
	err := r.db.QueryRowContext(ctx, `
		UPDATE contact_messages SET is_read = TRUE WHERE id = $1
		RETURNING id, name, email, phone, subject, message, is_read, created_at
	`, id).Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message, &m.IsRead, &m.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrMessageNotFound
	}
	return nil
}
