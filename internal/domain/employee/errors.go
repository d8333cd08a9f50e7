package employee

import "errors"

var (
	ErrInvalidBulkAction = errors.New("action must be one of activate, deactivate, delete, unlock")
	ErrNoEmployeesChosen = errors.New("no employees selected")
	ErrInvalidSalary     = errors.New("salary must be a non-negative amount")
)
