package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type creditBody struct {
	ClassID string  `json:"class_id" validate:"notblank"`
	Credit  float64 `json:"credit" validate:"gte=0"`
}

func TestValidator(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	assert.NoError(t, v.Struct(creditBody{ClassID: "c1", Credit: 1}))

	err = v.Struct(creditBody{ClassID: "   ", Credit: -1})
	require.Error(t, err)

	fields := v.Fields(err)
	assert.Equal(t, "class_id must not be blank", fields["class_id"])
	assert.Contains(t, fields, "credit")

	assert.Nil(t, v.Fields(errors.New("other")))
}

func TestValidator_NotBlankRejectsEmptyValues(t *testing.T) {
	v := MustNew()

	type note struct {
		Text  string   `json:"text" validate:"notblank"`
		Items []string `json:"items" validate:"notblank"`
	}

	fields := v.Fields(v.Struct(note{Text: "\t\n", Items: nil}))
	assert.Equal(t, "text must not be blank", fields["text"])
	assert.Equal(t, "items must not be blank", fields["items"])

	assert.NoError(t, v.Struct(note{Text: "ok", Items: []string{"a"}}))
}
