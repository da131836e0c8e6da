package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeCodeExists = errors.New("employee code already exists")
	ErrEmailExists        = errors.New("email already registered")
	ErrManagerNotFound    = errors.New("manager not found")
	ErrSelfManager        = errors.New("employee cannot manage themselves")
	ErrEmployeeInactive   = errors.New("employee is inactive")
)
