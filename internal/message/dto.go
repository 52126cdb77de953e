// dto.go

package message

import "time"

type SendMessageRequest struct {
	OrderID string `json:"orderId" validate:"required,uuid"`
	Body    string `json:"body" validate:"required,max=10000"`
}

type MarkReadRequest struct {
	OrderID string `json:"orderId" validate:"required,uuid"`
}

type MessageResponse struct {
	ID         string     `json:"id"`
	OrderID    string     `json:"orderId"`
	SenderID   string     `json:"senderId"`
	SenderRole string     `json:"senderRole"`
	Body       string     `json:"body"`
	ReadAt     *time.Time `json:"readAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type MarkReadResponse struct {
	MarkedRead int `json:"markedRead"`
}

// ListMessagesParams pages through one order's thread, oldest first.
type ListMessagesParams struct {
	OrderID  string
	Page     int
	PageSize int
}

func (p *ListMessagesParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 200 {
		p.PageSize = 50
	}
}

func (p *ListMessagesParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToMessageResponse(message *Message) *MessageResponse {
	return &MessageResponse{
		ID:         message.ID,
		OrderID:    message.OrderID,
		SenderID:   message.SenderID,
		SenderRole: message.SenderRole,
		Body:       message.Body,
		ReadAt:     message.ReadAt,
		CreatedAt:  message.CreatedAt,
	}
}

func ToMessageResponseList(messages []Message) []*MessageResponse {
	out := make([]*MessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, ToMessageResponse(&messages[i]))
	}
	return out
}
