package sim

import "errors"

// Rejected operations return one of these, wrapped with context.
// Callers match with errors.Is. The receiver's state is unchanged on error.
var (
	// ErrInvalidFaceValue: SetWeight named a face the die does not have, or
	// NewDie was given a NaN face.
	ErrInvalidFaceValue = errors.New("face value is not on the die")
	// ErrInvalidWeight: weight is negative, NaN, infinite or not a number.
	ErrInvalidWeight = errors.New("invalid weight")
	// ErrInvalidForm: Show was asked for a layout other than wide or narrow.
	ErrInvalidForm = errors.New("invalid form")

	ErrNoFaces          = errors.New("die needs at least one face")
	ErrNoDice           = errors.New("game needs at least one die")
	ErrInvalidRollCount = errors.New("roll count must be non-negative")
	ErrNoSelectableFace = errors.New("every face has zero weight")
	ErrNotPlayed        = errors.New("game has not been played")
	ErrDieIndex         = errors.New("die index out of range")
)
