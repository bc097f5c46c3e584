package domain

import "fmt"

// Error is the API's error taxonomy: a stable machine-readable code, a human
// description, and the HTTP status the transport layer should answer with.
// None of these are retried anywhere; they surface verbatim to the caller.
type Error struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Status      int    `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// NewError builds an Error with a dynamic description.
func NewError(code, description string, status int) *Error {
	return &Error{Code: code, Description: description, Status: status}
}

// Malformed-request failures (400).
var (
	ErrRequiredPropertyMissing = &Error{"required_property_missing", "One of the required properties is missing.", 400}
	ErrInvalidDueDate          = &Error{"invalid_due_date", "Cannot parse the due_date.", 400}
	ErrInvalidCompleted        = &Error{"invalid_completed", "Cannot parse the completed value.", 400}
	ErrInvalidPublic           = &Error{"invalid_public", "Cannot parse the public value.", 400}
)

// ErrInvalidID is returned whenever a referenced id does not exist at all.
// Existence is always checked before ownership.
var ErrInvalidID = &Error{"invalid_id", "The id does not exist.", 404}

// Authorization failures (403).
var (
	ErrTaskForbidden = &Error{"forbidden", "You are not permitted to view/modify the task.", 403}
	ErrListForbidden = &Error{"forbidden", "You are not permitted to view/modify the list.", 403}
)

// State-conflict business rule violations (403).
var (
	ErrListNameNotUnique = &Error{"list_name_not_unique", "You already have a list with the same name.", 403}
	ErrTaskListNotEmpty  = &Error{"task_list_not_empty", "The task is already added to a list", 403}
	ErrTaskListEmpty     = &Error{"task_list_empty", "The task is not in any lists.", 403}
	ErrListIDNotMatching = &Error{"list_id_not_matching", "The task is not in the list.", 403}
)

// Authentication failures (401). On auth-optional routes these are swallowed
// and the request proceeds anonymously.
var (
	ErrAuthHeaderMissing = &Error{"authorization_header_missing", "Authorization header is expected", 401}
	ErrInvalidHeader     = &Error{"invalid_header", "Unable to parse authentication token.", 401}
	ErrTokenExpired      = &Error{"token_expired", "token is expired", 401}
	ErrInvalidClaims     = &Error{"invalid_claims", "incorrect claims, please check the audience and issuer", 401}
	ErrInvalidUserID     = &Error{"invalid_user_id", "The user id is not in datastore.", 401}
)

// Transport-level failures.
var (
	ErrNotAcceptable = &Error{"not_acceptable", "The accept header is missing or the media type does not support json.", 406}
)
