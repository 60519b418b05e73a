package main

import (
	"context"

	"github.com/shulehq/shule/core/exam"
)

// addUser creates an exam account, validating it the same way the API does.
func (cli *commandLine) addUser(uname, pwd string, isInstructor bool) error {
	role := exam.RoleStudent
	if isInstructor {
		role = exam.RoleInstructor
	}

	nu := exam.NewUser{
		Username: uname,
		Password: pwd,
		Role:     role,
	}
	if err := nu.Validate(cli.examSvc); err != nil {
		return err
	}

	_, err := cli.examSvc.AddUser(context.Background(), nu)
	return err
}
