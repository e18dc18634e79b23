package inventory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortageError_MessageNamesEveryIngredient(t *testing.T) {
	err := &ShortageError{Shortages: []Shortage{
		{Ingredient: "Flour", Required: 0.5, Available: 0.3},
		{Ingredient: "Cheese", Required: 0.2, Available: 0.0},
	}}
	assert.Equal(t, "not enough Flour, Cheese in stock", err.Error())
}

func TestProcessingError_HidesCauseButUnwraps(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed")
	err := &ProcessingError{Op: "record sale", Err: cause}

	assert.Equal(t, "unable to record sale", err.Error())
	assert.NotContains(t, err.Error(), "UNIQUE")
	assert.ErrorIs(t, err, cause)
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Message: "note is required"}
	assert.EqualError(t, err, "note is required")
}

func TestNegativeStockError_Message(t *testing.T) {
	err := &NegativeStockError{Ingredient: "Flour", Resulting: -0.1}
	assert.Contains(t, err.Error(), "Flour")
	assert.Contains(t, err.Error(), "negative")
}
