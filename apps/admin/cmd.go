package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/joinquran/backend/core/customer"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	custSvc  *customer.Service
	custRepo customer.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  listcustomers - list all registered accounts")
	fmt.Println("  addcustomer -email EMAIL - create or reactivate an account. The password will be prompted next.")
	fmt.Println("  resetpassword -email EMAIL - reset a customer's password")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addCustomerCmd := flag.NewFlagSet("addcustomer", flag.ExitOnError)
	addCustomerEmail := addCustomerCmd.String("email", "", "The customer's email. The password will be prompted next.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The customer's email. The password will be prompted next.")

	switch args[1] {
	case "listcustomers":
		return cli.listCustomers()
	case "addcustomer":
		if err := addCustomerCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addCustomerEmail == "" {
			addCustomerCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(addCustomerCmd)
		if err != nil {
			return err
		}
		return cli.addCustomer(*addCustomerEmail, pwd)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(resetPasswordCmd)
		if err != nil {
			return err
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)
	default:
		cli.printUsage()
		return errHelp
	}
}

// promptPassword reads a password without echoing it. An empty entry is a
// usage error.
func (cli *commandLine) promptPassword(cmd *flag.FlagSet) (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		cmd.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}
