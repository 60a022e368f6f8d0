package contact

import (
	"time"

	"github.com/google/uuid"
)

// Message is a contact-form entry. Phone is the only optional field.
type Message struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     string
	Subject   string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}

type CreateInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}
