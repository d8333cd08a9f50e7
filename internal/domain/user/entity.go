package user

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin    Role = "Admin"    // Full access, manages accounts
	RoleHR       Role = "HR"       // Manages attendance, leave and tasks
	RoleEmployee Role = "Employee" // Self-service only
)

// AllRoles returns every assignable role
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleHR, RoleEmployee}
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleEmployee:
		return true
	}
	return false
}

// IsPrivileged reports whether the role may act on other users' records.
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleHR
}

type User struct {
	ID                  string
	Username            string
	Email               string
	PasswordHash        string
	FirstName           string
	LastName            string
	Role                Role
	EmployeeID          *string
	Phone               *string
	Department          *string
	Salary              *decimal.Decimal
	DateOfJoining       *time.Time
	IsActive            bool
	IsAccountLocked     bool
	FailedLoginAttempts int
	MustChangePassword  bool
	LastLoginAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// FullName falls back to the username when no name is set
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanLogin checks the account flags that block authentication
func (u *User) CanLogin() bool {
	return u.IsActive && !u.IsAccountLocked
}

// Actor is the authenticated subject of an operation.
type Actor struct {
	ID   string
	Role Role
	IP   string
}

func (a Actor) IsPrivileged() bool {
	return a.Role.IsPrivileged()
}
