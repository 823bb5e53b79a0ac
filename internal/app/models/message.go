package models

import "time"

// Message is a direct message between two accounts
type Message struct {
	ID          int64      `json:"id" db:"id"`
	SenderID    int64      `json:"senderId" db:"sender_id"`
	RecipientID int64      `json:"recipientId" db:"recipient_id"`
	Subject     *string    `json:"subject,omitempty" db:"subject"`
	Content     string     `json:"content" db:"content"`
	IsRead      bool       `json:"isRead" db:"is_read"`
	ReadAt      *time.Time `json:"readAt,omitempty" db:"read_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`

	Sender    *User `json:"sender,omitempty"`
	Recipient *User `json:"recipient,omitempty"`
}
