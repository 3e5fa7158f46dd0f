package serializer

import (
	"fmt"

	"github.com/roach88/extremecraft/internal/item"
)

// Load error codes (E200-E299).
const (
	ErrCodeMissingIngredients = "E201" // "ingredients" absent or not an array
	ErrCodeMissingResult      = "E202" // "result" absent or not an object
	ErrCodeBadIngredient      = "E203" // ingredient entry failed to parse
	ErrCodeBadResult          = "E204" // result stack failed to parse
	ErrCodeUnknownTag         = "E205" // ingredient references an unknown tag
	ErrCodeBadType            = "E206" // "type" missing, malformed or unregistered
	ErrCodeMalformedJSON      = "E207" // file is not a JSON object
	ErrCodeNoIngredients      = "E208" // ingredient array is empty
	ErrCodeDuplicateRecipe    = "E209" // two files define the same recipe id
)

// LoadError reports why a recipe definition could not be loaded.
// Load errors are terminal for that one recipe.
type LoadError struct {
	Code    string
	Recipe  item.ID
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	var msg string
	if e.Field != "" {
		msg = fmt.Sprintf("[%s] recipe %s: %s: %s", e.Code, e.Recipe, e.Field, e.Message)
	} else {
		msg = fmt.Sprintf("[%s] recipe %s: %s", e.Code, e.Recipe, e.Message)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}

func loadError(code string, id item.ID, field, message string, cause error) *LoadError {
	return &LoadError{Code: code, Recipe: id, Field: field, Message: message, Err: cause}
}
