package employee

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cached-records/record"
	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Employee is the managed record.
type Employee struct {
	bun.BaseModel `bun:"table:employees" json:"-" msgpack:"-"`

	EmployeeID  int64     `bun:"employee_id,pk,autoincrement" json:"employeeId" msgpack:"employee_id"`
	FullName    string    `bun:"full_name,notnull" json:"fullName" msgpack:"full_name"`
	Email       string    `bun:"email,notnull" json:"email" msgpack:"email"`
	PhoneNumber string    `bun:"phone_number,notnull" json:"phoneNumber" msgpack:"phone_number"`
	City        string    `bun:"city,notnull" json:"city" msgpack:"city"`
	BirthDate   time.Time `bun:"birth_date,notnull" json:"birthDate" msgpack:"birth_date"`
	record.Audit
}

// GetID returns the primary key.
func (e Employee) GetID() int64 {
	return e.EmployeeID
}

// ID exposes the key field to stores that assign ids.
func ID(e *Employee) *int64 {
	return &e.EmployeeID
}

var (
	phonePattern = regexp.MustCompile(`^\d{10,15}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

	minBirthDate = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	maxBirthDate = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Validate checks the caller supplied fields. The service does not call it;
// input surfaces such as the CLI do, before handing the record over.
func (e Employee) Validate() error {
	err := validation.ValidateStruct(&e,
		validation.Field(&e.FullName, validation.Required, validation.Length(1, 0)),
		validation.Field(&e.Email, validation.Required, validation.Match(emailPattern).Error("invalid email address")),
		validation.Field(&e.PhoneNumber, validation.Required, validation.Match(phonePattern).Error("invalid phone number")),
		validation.Field(&e.City, validation.Required),
		validation.Field(&e.BirthDate, validation.Required, validation.Min(minBirthDate), validation.Max(maxBirthDate).Error("invalid birth date")),
	)
	if err != nil {
		return errors.FromOzzoValidation(err, "invalid employee")
	}
	return nil
}
