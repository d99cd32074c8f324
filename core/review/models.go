package review

import (
	"time"

	"github.com/joinquran/backend/core"
)

// Moderation statuses. The store enforces no transition table; the admin
// dashboard flips pending reviews to approved or rejected.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Review is a testimonial submitted by a student, shown publicly once approved.
type Review struct {
	ID          string    `json:"id"`
	StudentName string    `json:"studentName"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	Date        time.Time `json:"date"` // UTC
	Status      string    `json:"status"`
}

func (r *Review) GetID() string     { return r.ID }
func (r *Review) SetID(id string)   { r.ID = id }
func (r *Review) Stamp(t time.Time) { r.Date = t }

// SetDefaults backfills the moderation status on freshly created reviews.
func (r *Review) SetDefaults() {
	if r.Status == "" {
		r.Status = StatusPending
	}
}

// NewReview contains information needed to create a new Review.
type NewReview struct {
	StudentName string `json:"studentName" validate:"required"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Comment     string `json:"comment" validate:"required"`
	Status      string `json:"status" validate:"omitempty,oneof=pending approved rejected"`
}

func (nr *NewReview) Validate() error {
	nr.StudentName = core.CleanString(nr.StudentName)
	nr.Comment = core.CleanString(nr.Comment)
	nr.Status = core.CleanString(nr.Status, true /* lower */)
	return core.Validate.Struct(nr)
}

func (nr NewReview) review() Review {
	return Review{
		StudentName: nr.StudentName,
		Rating:      nr.Rating,
		Comment:     nr.Comment,
		Status:      nr.Status,
	}
}
