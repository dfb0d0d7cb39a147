package service

import (
	"fmt"
)

type DomainError struct {
	Code    string
	Message string
	Err     error
}

func WrapError(domainError *DomainError, err error) error {
	return &DomainError{
		Code:    domainError.Code,
		Message: domainError.Message,
		Err:     err,
	}
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

var (
	// NOT_FOUND
	ErrOrgNotFound = &DomainError{
		Code:    "NOT_FOUND",
		Message: "organization not found",
	}
	ErrProjectNotFound = &DomainError{
		Code:    "NOT_FOUND",
		Message: "project not found",
	}
	ErrTaskNotFound = &DomainError{
		Code:    "NOT_FOUND",
		Message: "task not found",
	}
	ErrUserNotFound = &DomainError{
		Code:    "NOT_FOUND",
		Message: "user not found",
	}

	// ORG_EXISTS
	ErrOrgExists = &DomainError{
		Code:    "ORG_EXISTS",
		Message: "organization name already exists",
	}

	// FORBIDDEN
	ErrNotOrgMember = &DomainError{
		Code:    "FORBIDDEN",
		Message: "caller is not a member of this organization",
	}
	ErrRoleForbidden = &DomainError{
		Code:    "FORBIDDEN",
		Message: "caller role does not permit this operation",
	}

	// NO_ASSIGNEE
	ErrNoAssignee = &DomainError{
		Code:    "NO_ASSIGNEE",
		Message: "cannot move task to Done without an assignee",
	}

	// INVALID_INPUT
	ErrInvalidInput = &DomainError{
		Code:    "INVALID_INPUT",
		Message: "invalid input",
	}
)
