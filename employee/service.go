// Package employee implements the soft-delete aware business rules for
// employee records on top of the cached repository.
package employee

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goliatone/go-cached-records/record"
	"github.com/goliatone/go-cached-records/repositorycache"
)

// Messages returned by the service.
const (
	MsgNoEmployees = "No employees found"
)

func msgNoEmployeeWithID(id int64) string {
	return fmt.Sprintf("No employee found with Id: %d", id)
}

func msgIDMismatch(id, employeeID int64) string {
	return fmt.Sprintf("%d and Employee Id: %d does not match", id, employeeID)
}

func msgNotFound(id int64) string {
	return fmt.Sprintf("Employee with ID %d not found", id)
}

// Service enforces soft delete visibility, id checks and merge on edit.
// Records flagged deleted are never returned and cannot be edited or deleted
// again.
type Service struct {
	repo   repositorycache.Repository[Employee]
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source used for audit stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a Service over repo.
func NewService(repo repositorycache.Repository[Employee], opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("component", "employee_service"))
	return s
}

// GetAll returns every active employee.
func (s *Service) GetAll(ctx context.Context) record.ResponseMessage[[]Employee] {
	res := s.repo.GetList(ctx)
	if !res.IsSuccess {
		return res
	}

	var items []Employee
	if res.Data != nil {
		items = record.Active(*res.Data)
	}
	if len(items) == 0 {
		return record.Empty[[]Employee](MsgNoEmployees)
	}
	return record.List(items)
}

// GetByID returns the active employee with id. Absence is a success without
// data.
func (s *Service) GetByID(ctx context.Context, id int64) record.ResponseMessage[Employee] {
	res := s.lookup(ctx, id)
	if res.IsSuccess && !res.HasData() {
		res.Message = msgNoEmployeeWithID(id)
	}
	return res
}

// Create stamps the creation time and stores e. The store assigns the id;
// caller supplied id, update time and deleted flag are discarded.
func (s *Service) Create(ctx context.Context, e Employee) record.ResponseMessage[Employee] {
	e.EmployeeID = 0
	e.MarkCreated(s.now())
	return s.repo.CreateData(ctx, &e)
}

// Edit merges the mutable fields of e onto the stored employee with id.
func (s *Service) Edit(ctx context.Context, id int64, e Employee) record.ResponseMessage[Employee] {
	if id != e.EmployeeID {
		s.logger.InfoContext(ctx, "edit rejected", slog.Int64("id", id), slog.Int64("employee_id", e.EmployeeID))
		return record.Fail[Employee](msgIDMismatch(id, e.EmployeeID))
	}

	current := s.lookup(ctx, id)
	if !current.IsSuccess {
		return current
	}
	if !current.HasData() {
		return record.Fail[Employee](msgNotFound(id))
	}

	merged := *current.Data
	merged.FullName = e.FullName
	merged.City = e.City
	merged.Email = e.Email
	merged.PhoneNumber = e.PhoneNumber
	merged.BirthDate = e.BirthDate
	merged.Touch(s.now())

	return s.repo.EditData(ctx, &merged)
}

// Delete soft deletes the employee with id.
func (s *Service) Delete(ctx context.Context, id int64) record.ResponseMessage[Employee] {
	current := s.lookup(ctx, id)
	if !current.IsSuccess {
		return current
	}
	if !current.HasData() {
		return record.Fail[Employee](msgNotFound(id))
	}

	target := *current.Data
	target.SoftDelete(s.now())

	return s.repo.DeleteData(ctx, &target)
}

func (s *Service) lookup(ctx context.Context, id int64) record.ResponseMessage[Employee] {
	return s.repo.GetByID(ctx, func(e Employee) bool {
		return e.EmployeeID == id && !e.FlagDeleted
	})
}
