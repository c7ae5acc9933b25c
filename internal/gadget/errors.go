package gadget

import "errors"

// Domain errors for the gadget package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, gadget.ErrNotFound) {
//	    // handle not found case
//	}
var (
	// ErrNotFound is returned when no gadget matches the lookup key.
	ErrNotFound = errors.New("gadget: not found")

	// ErrNameExists is returned when the generated codename collides with
	// an existing gadget. The database's UNIQUE constraint is the sole guard.
	ErrNameExists = errors.New("gadget: name already exists")

	// ErrMissingName is returned when an operation requires a name and none was given.
	ErrMissingName = errors.New("gadget: name is required")

	// ErrNoFieldsProvided is returned when an update supplies neither status nor success.
	ErrNoFieldsProvided = errors.New("gadget: either success or status must be provided")

	// ErrInvalidStatus is returned when a status value is not one of the four enum members.
	ErrInvalidStatus = errors.New("gadget: invalid status")

	// ErrInvalidSuccessValue is returned when a success value is not a digits-only string.
	ErrInvalidSuccessValue = errors.New("gadget: invalid success value")

	// ErrInvalidFilter is returned when a list status filter is not an enum member.
	ErrInvalidFilter = errors.New("gadget: invalid status filter")

	// ErrMissingConfirmationCode is returned when a self-destruct request omits the code.
	ErrMissingConfirmationCode = errors.New("gadget: confirmation code is required")
)
