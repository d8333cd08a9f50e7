package employee

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

type BulkAction string

const (
	BulkActivate   BulkAction = "activate"
	BulkDeactivate BulkAction = "deactivate"
	BulkDelete     BulkAction = "delete"
	BulkUnlock     BulkAction = "unlock"
)

func (a BulkAction) IsValid() bool {
	switch a {
	case BulkActivate, BulkDeactivate, BulkDelete, BulkUnlock:
		return true
	}
	return false
}

type CreateEmployeeRequest struct {
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Email         string  `json:"email"`
	Role          string  `json:"role"`
	Phone         *string `json:"phone,omitempty"`
	Department    *string `json:"department,omitempty"`
	Salary        *string `json:"salary,omitempty"`
	DateOfJoining *string `json:"date_of_joining,omitempty"`

	salary *decimal.Decimal
	joined *time.Time
}

func parseSalary(errs *validator.ValidationErrors, raw *string) *decimal.Decimal {
	if raw == nil || *raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(*raw)
	if err != nil || d.IsNegative() {
		errs.Add("salary", ErrInvalidSalary.Error())
		return nil
	}
	d = d.Round(2)
	return &d
}

func parseJoined(errs *validator.ValidationErrors, raw *string) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}
	d, ok := validator.IsValidDate(*raw)
	if !ok {
		errs.Add("date_of_joining", "date_of_joining must be in YYYY-MM-DD format")
		return nil
	}
	return &d
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FirstName) {
		errs.Add("first_name", "first_name is required")
	}
	if validator.IsEmpty(r.LastName) {
		errs.Add("last_name", "last_name is required")
	}
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email format is invalid")
	}
	if r.Role == "" {
		r.Role = string(user.RoleEmployee)
	}
	if !user.Role(r.Role).IsValid() {
		errs.Add("role", "role must be one of Admin, HR, Employee")
	}
	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "phone must contain 7 to 15 digits")
	}
	r.salary = parseSalary(&errs, r.Salary)
	r.joined = parseJoined(&errs, r.DateOfJoining)

	return errs.Err()
}

// ParsedSalary is available after a successful Validate.
func (r *CreateEmployeeRequest) ParsedSalary() *decimal.Decimal { return r.salary }

// ParsedDateOfJoining is available after a successful Validate.
func (r *CreateEmployeeRequest) ParsedDateOfJoining() *time.Time { return r.joined }

type UpdateEmployeeRequest struct {
	ID            string  `json:"-"`
	FirstName     *string `json:"first_name,omitempty"`
	LastName      *string `json:"last_name,omitempty"`
	Email         *string `json:"email,omitempty"`
	Role          *string `json:"role,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Department    *string `json:"department,omitempty"`
	Salary        *string `json:"salary,omitempty"`
	DateOfJoining *string `json:"date_of_joining,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`

	salary *decimal.Decimal
	joined *time.Time
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.FirstName != nil && validator.IsEmpty(*r.FirstName) {
		errs.Add("first_name", "first_name cannot be empty")
	}
	if r.LastName != nil && validator.IsEmpty(*r.LastName) {
		errs.Add("last_name", "last_name cannot be empty")
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs.Add("email", "email format is invalid")
	}
	if r.Role != nil && !user.Role(*r.Role).IsValid() {
		errs.Add("role", "role must be one of Admin, HR, Employee")
	}
	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "phone must contain 7 to 15 digits")
	}
	r.salary = parseSalary(&errs, r.Salary)
	r.joined = parseJoined(&errs, r.DateOfJoining)

	return errs.Err()
}

// ToUserUpdate converts the validated request into a repository update.
func (r *UpdateEmployeeRequest) ToUserUpdate() user.UpdateUserRequest {
	upd := user.UpdateUserRequest{
		ID:            r.ID,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Email:         r.Email,
		Phone:         r.Phone,
		Department:    r.Department,
		Salary:        r.salary,
		DateOfJoining: r.joined,
		IsActive:      r.IsActive,
	}
	if r.Role != nil {
		role := user.Role(*r.Role)
		upd.Role = &role
	}
	return upd
}

type BulkActionRequest struct {
	Action  string   `json:"action"`
	UserIDs []string `json:"user_ids"`
}

func (r *BulkActionRequest) Validate() error {
	var errs validator.ValidationErrors
	if !BulkAction(r.Action).IsValid() {
		errs.Add("action", ErrInvalidBulkAction.Error())
	}
	if len(r.UserIDs) == 0 {
		errs.Add("user_ids", ErrNoEmployeesChosen.Error())
	}
	return errs.Err()
}

type BulkActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
	Skipped int    `json:"skipped"`
}

type EmployeeFilter struct {
	Search string `json:"search"`
	Role   string `json:"role"`
	Status string `json:"status"` // active or inactive
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Role != "" && !user.Role(f.Role).IsValid() {
		errs.Add("role", "role must be one of Admin, HR, Employee")
	}
	if f.Status != "" && !validator.IsInSlice(f.Status, []string{"active", "inactive"}) {
		errs.Add("status", "status must be active or inactive")
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	return errs.Err()
}

// ToUserFilter converts the validated filter into a repository filter.
func (f EmployeeFilter) ToUserFilter() user.UserFilter {
	uf := user.UserFilter{Search: f.Search, Page: f.Page, Limit: f.Limit}
	if f.Role != "" {
		role := user.Role(f.Role)
		uf.Role = &role
	}
	if f.Status != "" {
		active := f.Status == "active"
		uf.IsActive = &active
	}
	return uf
}

type EmployeeResponse struct {
	ID                  string     `json:"id"`
	Username            string     `json:"username"`
	Email               string     `json:"email"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	FullName            string     `json:"full_name"`
	Role                string     `json:"role"`
	EmployeeID          *string    `json:"employee_id,omitempty"`
	Phone               *string    `json:"phone,omitempty"`
	Department          *string    `json:"department,omitempty"`
	Salary              *string    `json:"salary,omitempty"`
	DateOfJoining       *string    `json:"date_of_joining,omitempty"`
	IsActive            bool       `json:"is_active"`
	IsAccountLocked     bool       `json:"is_account_locked"`
	FailedLoginAttempts int        `json:"failed_login_attempts"`
	MustChangePassword  bool       `json:"must_change_password"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

type ListEmployeeResponse struct {
	Employees  []EmployeeResponse `json:"employees"`
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

func ToResponse(u user.User) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                  u.ID,
		Username:            u.Username,
		Email:               u.Email,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		FullName:            u.FullName(),
		Role:                string(u.Role),
		EmployeeID:          u.EmployeeID,
		Phone:               u.Phone,
		Department:          u.Department,
		IsActive:            u.IsActive,
		IsAccountLocked:     u.IsAccountLocked,
		FailedLoginAttempts: u.FailedLoginAttempts,
		MustChangePassword:  u.MustChangePassword,
		LastLoginAt:         u.LastLoginAt,
		CreatedAt:           u.CreatedAt,
	}
	if u.Salary != nil {
		s := u.Salary.StringFixed(2)
		resp.Salary = &s
	}
	if u.DateOfJoining != nil {
		d := u.DateOfJoining.Format(utils.DateLayout)
		resp.DateOfJoining = &d
	}
	return resp
}
