package interaction

import "errors"

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrAlreadyExists  = errors.New("recipe is already in the list")
	ErrNotInList      = errors.New("recipe is not in the list")
	ErrUnknownKind    = errors.New("unknown list kind")
)
