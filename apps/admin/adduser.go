package main

import (
	"context"
	"time"

	"github.com/trezcool/coursemaster/core"
	"github.com/trezcool/coursemaster/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(name, email, pwd string, isAdmin bool) error {
	var usr user.User
	var err error
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	if usr, err = cli.usrSvc.GetByEmail(ctx, email); err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Name:         name,
			Email:        email,
			Role:         user.RoleStudent,
			RegisteredAt: time.Now().UTC(),
		}
	}
	if isAdmin {
		usr.Role = user.RoleAdmin
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.usrSvc.UpdateOrCreate(ctx, usr); err != nil {
		return err
	}
	return nil
}
