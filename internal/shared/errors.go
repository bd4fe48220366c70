package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing API credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid API credentials")

	// API and catalog errors
	ErrAPIRequest      = fmt.Errorf("API request failed")
	ErrUnavailable     = fmt.Errorf("service unavailable")
	ErrAccountNotFound = fmt.Errorf("account not found")
	ErrBatchNotFound   = fmt.Errorf("batch not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrDuplicateEmail  = fmt.Errorf("duplicate email")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidRole     = fmt.Errorf("invalid role")

	// Wizard transition guards
	ErrEmptySelection  = fmt.Errorf("no users selected")
	ErrUnassignedUsers = fmt.Errorf("users without account assignments")
	ErrInvalidStep     = fmt.Errorf("invalid wizard step")
)
