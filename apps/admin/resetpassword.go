package main

import (
	"context"
	"fmt"

	"github.com/joinquran/backend/core"
)

// resetPassword replaces the stored password hash for the account matching email.
func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	if err := cli.custSvc.ResetPassword(ctx, email, pwd); err != nil {
		return err
	}
	fmt.Printf("password reset for %s\n", email)
	return nil
}
