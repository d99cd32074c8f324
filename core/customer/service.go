package customer

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/joinquran/backend/core"
)

var (
	// errors
	ErrNotFound        = errors.New("customer not found")
	ErrEmailExists     = errors.New("an account with this email already exists")
	ErrAuthFailed      = errors.New("invalid email or password")
	ErrAccountInactive = errors.New("account is not active")
)

type (
	Repository interface {
		QueryAllCustomers(ctx context.Context) ([]Customer, error)
		GetCustomerByID(ctx context.Context, id string) (Customer, error)
		// GetCustomerByEmail matches case-insensitively.
		GetCustomerByEmail(ctx context.Context, email string) (Customer, error)
		CreateCustomer(ctx context.Context, cust Customer) (Customer, error)
		// UpdateCustomer does a shallow merge of patch onto the matched record;
		// the id and creation timestamp are immutable.
		UpdateCustomer(ctx context.Context, id string, patch map[string]interface{}) (Customer, error)
		DeleteCustomer(ctx context.Context, id string) error
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, conf: conf}
}

// Register creates a new active account. Email uniqueness is checked
// case-insensitively; a duplicate surfaces as a field-level validation error,
// not a second record. The admin inbox is notified on success.
func (svc *Service) Register(ctx context.Context, nc NewCustomer) (Customer, error) {
	if _, err := svc.repo.GetCustomerByEmail(ctx, nc.Email); err == nil {
		return Customer{}, core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	} else if err != ErrNotFound {
		return Customer{}, err
	}

	cust := nc.customer()
	if err := cust.SetPassword(nc.Password); err != nil {
		return Customer{}, err
	}

	cust, err := svc.repo.CreateCustomer(ctx, cust)
	if err != nil {
		return Customer{}, err
	}

	svc.notifyAdmin(cust)
	return cust.WithoutPassword(), nil
}

// Authenticate verifies the credentials against the stored hash.
// Inactive accounts cannot log in.
func (svc *Service) Authenticate(ctx context.Context, email, pwd string) (Customer, error) {
	cust, err := svc.repo.GetCustomerByEmail(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return Customer{}, ErrAuthFailed
		}
		return Customer{}, err
	}
	if !cust.IsActive() {
		return Customer{}, ErrAccountInactive
	}
	if err := cust.CheckPassword(pwd); err != nil {
		return Customer{}, ErrAuthFailed
	}
	return cust.WithoutPassword(), nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Customer, error) {
	custs, err := svc.repo.QueryAllCustomers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range custs {
		custs[i] = custs[i].WithoutPassword()
	}
	return custs, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Customer, error) {
	cust, err := svc.repo.GetCustomerByID(ctx, id)
	if err != nil {
		return Customer{}, err
	}
	return cust.WithoutPassword(), nil
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Customer, error) {
	cust, err := svc.repo.GetCustomerByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return Customer{}, err
	}
	return cust.WithoutPassword(), nil
}

func (svc *Service) Update(ctx context.Context, id string, patch map[string]interface{}) (Customer, error) {
	delete(patch, "password") // password changes go through SetPassword only
	cust, err := svc.repo.UpdateCustomer(ctx, id, patch)
	if err != nil {
		return Customer{}, err
	}
	return cust.WithoutPassword(), nil
}

// ResetPassword replaces the stored hash for the account matching email.
func (svc *Service) ResetPassword(ctx context.Context, email, pwd string) error {
	cust, err := svc.repo.GetCustomerByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	if err := cust.SetPassword(pwd); err != nil {
		return err
	}
	_, err = svc.repo.UpdateCustomer(ctx, cust.ID, map[string]interface{}{"password": cust.PasswordHash})
	return err
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteCustomer(ctx, id)
}

func (svc *Service) notifyAdmin(cust Customer) {
	if svc.mailSvc == nil {
		return
	}
	body := fmt.Sprintf(
		"New Student Registration!\n\n"+
			"Student Name: %s\nGuardian Name: %s\nEmail: %s\nMobile: %s\n"+
			"City: %s\nCountry: %s\nGender: %s\nAge: %d\n\nRegistered at: %s\n",
		cust.StudentName, cust.GuardianName, cust.Email, cust.Mobile,
		cust.City, cust.Country, cust.Gender, cust.StudentAge,
		cust.CreatedAt.Format(time.RFC1123),
	)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:          []mail.Address{svc.conf.AdminEmail},
		Subject:     "New Student Registration - " + cust.StudentName,
		TextContent: body,
	})
}
