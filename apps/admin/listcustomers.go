package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
)

// listCustomers prints every registered account to stdout.
func (cli *commandLine) listCustomers() error {
	custs, err := cli.custSvc.QueryAll(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSTUDENT\tGUARDIAN\tEMAIL\tSTATUS\tREGISTERED")
	for _, cust := range custs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			cust.ID, cust.StudentName, cust.GuardianName, cust.Email, cust.Status,
			cust.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
