package main

import (
	"context"
	"fmt"

	"github.com/joinquran/backend/core"
	"github.com/joinquran/backend/core/customer"
)

// addCustomer updates or creates the account matching email. The account ends
// up active with the given password either way.
func (cli *commandLine) addCustomer(email, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	cust, err := cli.custRepo.GetCustomerByEmail(ctx, email)
	if err != nil {
		if err != customer.ErrNotFound {
			return err
		}
		cust = customer.Customer{Email: email}
	}
	cust.Status = customer.StatusActive
	if err := cust.SetPassword(pwd); err != nil {
		return err
	}

	if cust.ID == "" {
		if _, err := cli.custRepo.CreateCustomer(ctx, cust); err != nil {
			return err
		}
	} else {
		patch := map[string]interface{}{
			"status":   cust.Status,
			"password": cust.PasswordHash,
		}
		if _, err := cli.custRepo.UpdateCustomer(ctx, cust.ID, patch); err != nil {
			return err
		}
	}
	fmt.Printf("account ready for %s\n", email)
	return nil
}
