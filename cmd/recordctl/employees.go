package main

import (
	"strconv"
	"time"

	"github.com/goliatone/go-cached-records/employee"
	"github.com/goliatone/go-errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const birthDateLayout = "2006-01-02"

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.container.Migrate(cmd.Context()); err != nil {
				a.logger.Error("migration failed", "error", err)
				return err
			}
			a.logger.Info("migration complete")
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return respond(a, a.service().GetAll(cmd.Context()))
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return a.report(err)
			}
			return respond(a, a.service().GetByID(cmd.Context(), id))
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	var in employeeFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := in.employee()
			if err != nil {
				return a.report(err)
			}
			return respond(a, a.service().Create(cmd.Context(), e))
		},
	}
	in.register(cmd.Flags())
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var in employeeFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace the details of an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return a.report(err)
			}
			e, err := in.employee()
			if err != nil {
				return a.report(err)
			}
			e.EmployeeID = id
			return respond(a, a.service().Edit(cmd.Context(), id, e))
		},
	}
	in.register(cmd.Flags())
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Soft delete an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return a.report(err)
			}
			return respond(a, a.service().Delete(cmd.Context(), id))
		},
	}
}

// employeeFlags collects the caller supplied employee fields.
type employeeFlags struct {
	fullName  string
	email     string
	phone     string
	city      string
	birthDate string
}

func (f *employeeFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.fullName, "full-name", "", "full name")
	flags.StringVar(&f.email, "email", "", "email address")
	flags.StringVar(&f.phone, "phone", "", "phone number, 10 to 15 digits")
	flags.StringVar(&f.city, "city", "", "city")
	flags.StringVar(&f.birthDate, "birth-date", "", "birth date as YYYY-MM-DD")
}

// employee builds and validates the record described by the flags.
func (f *employeeFlags) employee() (employee.Employee, error) {
	var birth time.Time
	if f.birthDate != "" {
		t, err := time.Parse(birthDateLayout, f.birthDate)
		if err != nil {
			return employee.Employee{}, errors.Wrap(err, errors.CategoryBadInput, "parse --birth-date")
		}
		birth = t
	}

	e := employee.Employee{
		FullName:    f.fullName,
		Email:       f.email,
		PhoneNumber: f.phone,
		City:        f.city,
		BirthDate:   birth,
	}
	if err := e.Validate(); err != nil {
		return employee.Employee{}, err
	}
	return e, nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("id must be a positive integer, got "+strconv.Quote(arg), errors.CategoryBadInput)
	}
	return id, nil
}
