package student

import (
	"time"

	"github.com/joinquran/backend/core"
)

// Student is one enrollment record as reviewed on the admin dashboard.
type Student struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Course           string    `json:"course"`
	Status           string    `json:"status"`
	RegistrationDate time.Time `json:"registrationDate"` // UTC
}

func (s *Student) GetID() string     { return s.ID }
func (s *Student) SetID(id string)   { s.ID = id }
func (s *Student) Stamp(t time.Time) { s.RegistrationDate = t }

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Phone  string `json:"phone"`
	Course string `json:"course" validate:"required"`
	Status string `json:"status"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Course = core.CleanString(ns.Course)
	ns.Status = core.CleanString(ns.Status, true /* lower */)
	return core.Validate.Struct(ns)
}

func (ns NewStudent) student() Student {
	status := ns.Status
	if status == "" {
		status = "active"
	}
	return Student{
		Name:   ns.Name,
		Email:  ns.Email,
		Phone:  ns.Phone,
		Course: ns.Course,
		Status: status,
	}
}
