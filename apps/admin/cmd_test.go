package main

import (
	"context"
	"testing"

	"github.com/joinquran/backend/core"
	"github.com/joinquran/backend/core/customer"
	"github.com/joinquran/backend/storage/jsonstore"
)

var custRepo customer.Repository

func setup(t *testing.T) *commandLine {
	conf := &core.Config{DataDir: t.TempDir()}

	repo, err := jsonstore.NewCustomerRepository(conf)
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	custRepo = repo

	// start CLI
	return &commandLine{
		custSvc:  customer.NewService(repo, nil, conf),
		custRepo: repo,
	}
}

func createCustomer(t *testing.T, email, pwd string) customer.Customer {
	cust := customer.Customer{
		StudentName:  "Ahmed",
		GuardianName: "Imran",
		Email:        email,
		Status:       customer.StatusActive,
	}
	if err := cust.SetPassword(pwd); err != nil {
		t.Fatalf("createCustomer() failed: %v", err)
	}
	cust, err := custRepo.CreateCustomer(context.Background(), cust)
	if err != nil {
		t.Fatalf("createCustomer() failed: %v", err)
	}
	return cust
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	wantErr error
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	cust := createCustomer(t, "imran@test.com", "old-pwd")

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "imran@test.com"}, wantErr: errHelp},
		{name: "customer not found", args: []string{"resetpassword", "-email", "lol@test.com"}, pwd: "lol", wantErr: customer.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", "Imran@Test.com"}, pwd: "new-pwd"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshed, err := custRepo.GetCustomerByID(context.Background(), cust.ID)
				if err != nil {
					t.Fatalf("GetCustomerByID() failed: %v", err)
				}
				if refreshed.CheckPassword(tt.pwd) != nil {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_addCustomer(t *testing.T) {
	cli := setup(t)

	existing := createCustomer(t, "imran@test.com", "old-pwd")
	_, err := custRepo.UpdateCustomer(context.Background(), existing.ID, map[string]interface{}{"status": "suspended"})
	if err != nil {
		t.Fatalf("UpdateCustomer() failed: %v", err)
	}

	tests := []cliTest{
		{name: "no args", args: []string{"addcustomer"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"addcustomer", "-email", "new@test.com"}, wantErr: errHelp},
		{name: "create", args: []string{"addcustomer", "-email", "New@Test.com"}, pwd: "new-pwd"},
		{name: "reactivate existing", args: []string{"addcustomer", "-email", "imran@test.com"}, pwd: "fresh-pwd"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			email := "new@test.com"
			if tt.name == "reactivate existing" {
				email = "imran@test.com"
			}
			cust, err := custRepo.GetCustomerByEmail(context.Background(), email)
			if err != nil {
				t.Fatalf("GetCustomerByEmail() failed: %v", err)
			}
			if !cust.IsActive() {
				t.Error("account is not active")
			}
			if cust.CheckPassword(tt.pwd) != nil {
				t.Error("failed to set password")
			}
		})
	}
}

func Test_commandLine_listCustomers(t *testing.T) {
	cli := setup(t)
	createCustomer(t, "imran@test.com", "old-pwd")

	if err := cli.run([]string{"admin", "listcustomers"}); err != nil {
		t.Errorf("cli.run() unexpected error = %v", err)
	}
}
