// dto.go

package revision

import "time"

type RequestRevisionRequest struct {
	OrderID string `json:"orderId" validate:"required,uuid"`
	Details string `json:"details" validate:"required,max=5000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=in_progress completed declined"`
}

type RevisionResponse struct {
	ID         string     `json:"id"`
	OrderID    string     `json:"orderId"`
	ClientID   string     `json:"clientId"`
	Details    string     `json:"details"`
	Status     string     `json:"status"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type ListRevisionsParams struct {
	Page     int
	PageSize int
	Status   string
	OrderID  string
	ClientID string
}

func (p *ListRevisionsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
}

func (p *ListRevisionsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToRevisionResponse(revision *Revision) *RevisionResponse {
	return &RevisionResponse{
		ID:         revision.ID,
		OrderID:    revision.OrderID,
		ClientID:   revision.ClientID,
		Details:    revision.Details,
		Status:     string(revision.Status),
		ResolvedAt: revision.ResolvedAt,
		CreatedAt:  revision.CreatedAt,
		UpdatedAt:  revision.UpdatedAt,
	}
}

func ToRevisionResponseList(revisions []Revision) []*RevisionResponse {
	out := make([]*RevisionResponse, 0, len(revisions))
	for i := range revisions {
		out = append(out, ToRevisionResponse(&revisions[i]))
	}
	return out
}
