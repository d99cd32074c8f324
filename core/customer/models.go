package customer

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/joinquran/backend/core"
)

const StatusActive = "active"

// Customer is a signed-up account: the guardian enrolling a student,
// plus the student's learning preferences.
type Customer struct {
	ID           string    `json:"id"`
	StudentName  string    `json:"studentName"`
	GuardianName string    `json:"guardianName"`
	Email        string    `json:"email"`
	Mobile       string    `json:"mobile"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	Gender       string    `json:"gender"`
	StudentAge   int       `json:"studentAge"`
	PasswordHash string    `json:"password,omitempty"` // bcrypt; blanked before leaving the service layer
	CreatedAt    time.Time `json:"createdAt"`          // UTC
	Status       string    `json:"status"`

	// learning preferences (optional)
	Level         string `json:"level,omitempty"`
	DaysPerWeek   int    `json:"daysPerWeek,omitempty"`
	PreferredTime string `json:"preferredTime,omitempty"`
	Timezone      string `json:"timezone,omitempty"`
}

func (c *Customer) GetID() string     { return c.ID }
func (c *Customer) SetID(id string)   { c.ID = id }
func (c *Customer) Stamp(t time.Time) { c.CreatedAt = t }

func (c *Customer) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	c.PasswordHash = string(hash)
	return nil
}

func (c *Customer) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(pwd))
}

func (c *Customer) IsActive() bool { return c.Status == StatusActive }

// WithoutPassword returns a copy safe to serialize in API responses.
func (c Customer) WithoutPassword() Customer {
	c.PasswordHash = ""
	return c
}

// NewCustomer contains information needed to register a new Customer.
type NewCustomer struct {
	StudentName  string `json:"studentName" validate:"required"`
	GuardianName string `json:"guardianName" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Mobile       string `json:"mobile" validate:"required"`
	City         string `json:"city" validate:"required"`
	Country      string `json:"country" validate:"required"`
	Gender       string `json:"gender" validate:"required"`
	StudentAge   int    `json:"studentAge" validate:"required,gt=0"`
	Password     string `json:"password" validate:"required"`

	Level         string `json:"level"`
	DaysPerWeek   int    `json:"daysPerWeek" validate:"omitempty,min=1,max=7"`
	PreferredTime string `json:"preferredTime"`
	Timezone      string `json:"timezone"`
}

func (nc *NewCustomer) Validate() error {
	nc.StudentName = core.CleanString(nc.StudentName)
	nc.GuardianName = core.CleanString(nc.GuardianName)
	nc.Email = core.CleanString(nc.Email, true /* lower */)
	nc.Mobile = core.CleanString(nc.Mobile)
	nc.City = core.CleanString(nc.City)
	nc.Country = core.CleanString(nc.Country)
	nc.Gender = core.CleanString(nc.Gender, true /* lower */)
	return core.Validate.Struct(nc)
}

func (nc NewCustomer) customer() Customer {
	return Customer{
		StudentName:   nc.StudentName,
		GuardianName:  nc.GuardianName,
		Email:         nc.Email,
		Mobile:        nc.Mobile,
		City:          nc.City,
		Country:       nc.Country,
		Gender:        nc.Gender,
		StudentAge:    nc.StudentAge,
		Status:        StatusActive,
		Level:         nc.Level,
		DaysPerWeek:   nc.DaysPerWeek,
		PreferredTime: nc.PreferredTime,
		Timezone:      nc.Timezone,
	}
}

// Credentials is a login request.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate() error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return core.Validate.Struct(c)
}
