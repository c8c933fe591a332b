package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"
)

// listUsers prints all accounts to stdout, newest first.
func (cli *commandLine) listUsers() error {
	users, err := cli.usrSvc.QueryAll(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEMAIL\tROLE\tREGISTERED")
	for _, usr := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", usr.Name, usr.Email, usr.Role, usr.RegisteredAt.Format(time.RFC3339))
	}
	return w.Flush()
}
