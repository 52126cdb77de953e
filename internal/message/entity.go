// entity.go

package message

import "time"

// Message is one entry in an order's conversation thread. SenderRole
// is recorded at send time so the thread still renders correctly if
// the sender's role changes later. ReadAt is nil until the other side
// marks the thread read.
type Message struct {
	ID         string     `db:"id"`
	OrderID    string     `db:"order_id"`
	SenderID   string     `db:"sender_id"`
	SenderRole string     `db:"sender_role"`
	Body       string     `db:"body"`
	ReadAt     *time.Time `db:"read_at"`
	CreatedAt  time.Time  `db:"created_at"`
}

func (m *Message) Read() bool {
	return m.ReadAt != nil
}
