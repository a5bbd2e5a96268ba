package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Username string       `json:"username" validate:"required,username"`
	Color    string       `json:"color" validate:"omitempty,hexcolor6"`
	Slug     string       `json:"slug" validate:"omitempty,slug"`
	Items    []sampleItem `json:"items" validate:"required,min=1,dive"`
}

type sampleItem struct {
	Amount int `json:"amount" validate:"gte=1"`
}

func TestIsValidUsername(t *testing.T) {
	assert.True(t, IsValidUsername("chef.bob+1@x"))
	assert.False(t, IsValidUsername("me"))
	assert.False(t, IsValidUsername("ME"))
	assert.False(t, IsValidUsername("has space"))
	assert.False(t, IsValidUsername(""))
}

func TestIsHexColor(t *testing.T) {
	assert.True(t, IsHexColor("#A1b2C3"))
	assert.False(t, IsHexColor("#abc"))
	assert.False(t, IsHexColor("A1B2C3"))
}

func TestValidate_UsesJSONFieldPaths(t *testing.T) {
	fields := Validate(sampleRequest{
		Username: "me",
		Color:    "red",
		Slug:     "no spaces",
		Items:    []sampleItem{{Amount: 0}},
	})
	require.NotNil(t, fields)
	assert.Contains(t, fields, "username")
	assert.Equal(t, "must be a #RRGGBB color", fields["color"])
	assert.Equal(t, "may contain only letters, digits, - and _", fields["slug"])
	assert.Equal(t, "must be greater than or equal to 1", fields["items[0].amount"])
}

func TestValidate_OK(t *testing.T) {
	assert.Nil(t, Validate(sampleRequest{Username: "bob", Items: []sampleItem{{Amount: 3}}}))
}

func TestDetails(t *testing.T) {
	d := Details(NewError("author", "cannot subscribe to yourself"))
	assert.Equal(t, map[string]string{"author": "cannot subscribe to yourself"}, d["field_errors"])

	d = Details(errors.New("unexpected EOF"))
	assert.Equal(t, map[string]string{"body": "must be valid JSON"}, d["field_errors"])

	assert.Nil(t, Details(nil))
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"b": "x", "a": "y"}}
	assert.Equal(t, "validation failed: a: y; b: x", err.Error())
}
