package jsonstore

import (
	"context"
	"strings"

	"github.com/joinquran/backend/core"
	"github.com/joinquran/backend/core/customer"
)

type customerRepository struct {
	coll *Collection[customer.Customer, *customer.Customer]
}

var _ customer.Repository = (*customerRepository)(nil) // interface compliance check

func NewCustomerRepository(conf *core.Config) (customer.Repository, error) {
	coll, err := NewCollection[customer.Customer](conf.DataDir, "customers", "createdAt")
	if err != nil {
		return nil, err
	}
	return &customerRepository{coll: coll}, nil
}

func (repo *customerRepository) QueryAllCustomers(ctx context.Context) ([]customer.Customer, error) {
	return repo.coll.List(ctx)
}

func (repo *customerRepository) GetCustomerByID(ctx context.Context, id string) (customer.Customer, error) {
	cust, err := repo.coll.Find(ctx, id)
	if err == ErrNotFound {
		return customer.Customer{}, customer.ErrNotFound
	}
	return cust, err
}

func (repo *customerRepository) GetCustomerByEmail(ctx context.Context, email string) (customer.Customer, error) {
	custs, err := repo.coll.List(ctx)
	if err != nil {
		return customer.Customer{}, err
	}
	for _, cust := range custs {
		if strings.EqualFold(cust.Email, email) {
			return cust, nil
		}
	}
	return customer.Customer{}, customer.ErrNotFound
}

func (repo *customerRepository) CreateCustomer(ctx context.Context, cust customer.Customer) (customer.Customer, error) {
	return repo.coll.Create(ctx, cust)
}

func (repo *customerRepository) UpdateCustomer(ctx context.Context, id string, patch map[string]interface{}) (customer.Customer, error) {
	cust, err := repo.coll.Update(ctx, id, patch)
	if err == ErrNotFound {
		return customer.Customer{}, customer.ErrNotFound
	}
	return cust, err
}

func (repo *customerRepository) DeleteCustomer(ctx context.Context, id string) error {
	return repo.coll.Delete(ctx, id)
}
