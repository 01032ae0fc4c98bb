package main

import (
	"context"
	"time"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/core/user"
)

// addUser updates or creates an active user.User
func (cli *commandLine) addUser(uname, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.findUser(ctx, uname, email)
	if err != nil {
		return err
	}
	isNew := usr.ID == ""
	now := time.Now().UTC()
	if isNew {
		usr = user.User{Name: uname, Roles: []string{user.RoleTutor}, CreatedAt: now}
		if usr.Name == "" {
			usr.Name = email
		}
	}
	if uname != "" {
		usr.Username = uname
	}
	if email != "" {
		usr.Email = email
	}
	usr.IsActive = true
	usr.UpdatedAt = now
	if isAdmin {
		usr.Roles = user.AllRoles
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if isNew {
		if err := cli.usrRepo.CheckUniqueness(ctx, usr.Username, usr.Email); err != nil {
			return err
		}
		_, err = cli.usrRepo.CreateUser(ctx, usr)
	} else {
		_, err = cli.usrRepo.UpdateUser(ctx, usr)
	}
	return err
}

// findUser returns the user matching `uname` or `email`, or the zero User.
func (cli *commandLine) findUser(ctx context.Context, uname, email string) (user.User, error) {
	for _, key := range []string{uname, email} {
		if key == "" {
			continue
		}
		usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{UsernameOrEmail: key})
		if err == nil {
			return usr, nil
		}
		if !core.IsNotFound(err) {
			return user.User{}, err
		}
	}
	return user.User{}, nil
}
