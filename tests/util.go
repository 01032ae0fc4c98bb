package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/core/period"
	"github.com/mhue26/Sample-sub000/core/student"
	"github.com/mhue26/Sample-sub000/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	if roles == nil {
		roles = []string{user.RoleTutor}
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(t *testing.T, repo student.Repository, userID, firstName, lastName string, subjects ...string) student.Student {
	t.Helper()
	now := time.Now().UTC()
	if subjects == nil {
		subjects = []string{}
	}
	s, err := repo.CreateStudent(context.Background(), student.Student{
		UserID:    userID,
		FirstName: firstName,
		LastName:  lastName,
		Subjects:  subjects,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}

func CreateTerm(t *testing.T, repo period.Repository, userID, name, start, end string, isActive bool) period.Term {
	t.Helper()
	now := time.Now().UTC()
	startDate := core.MustParseDate(start)
	term, err := repo.CreateTerm(context.Background(), period.Term{
		UserID:    userID,
		Name:      name,
		Start:     startDate,
		End:       core.MustParseDate(end),
		Year:      startDate.Year(),
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateTerm() failed: %v", err)
	}
	return term
}

func CreateHoliday(t *testing.T, repo period.Repository, userID, name, start, end string) period.Holiday {
	t.Helper()
	now := time.Now().UTC()
	startDate := core.MustParseDate(start)
	h, err := repo.CreateHoliday(context.Background(), period.Holiday{
		UserID:    userID,
		Name:      name,
		Start:     startDate,
		End:       core.MustParseDate(end),
		Year:      startDate.Year(),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateHoliday() failed: %v", err)
	}
	return h
}
