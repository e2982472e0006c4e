package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleForm struct {
	Name     string   `json:"name" validate:"required,max=10"`
	Price    string   `json:"price" validate:"required,numeric"`
	Website  string   `json:"image_url" validate:"omitempty,url"`
	Features []string `json:"features" validate:"dive,required"`
}

func TestValidate(t *testing.T) {
	v := New()

	t.Run("Valid", func(t *testing.T) {
		err := v.Validate(sampleForm{Name: "Arena", Price: "1200", Features: []string{"Parking"}})
		assert.NoError(t, err)
	})

	t.Run("Reports Json Field Names", func(t *testing.T) {
		err := v.Validate(sampleForm{Name: "", Price: "abc", Website: "not a url"})
		require.Error(t, err)

		var errs Errors
		require.True(t, errors.As(err, &errs))
		require.Len(t, errs, 3)
		assert.Equal(t, FieldError{Field: "name", Message: "name is required"}, errs[0])
		assert.Equal(t, FieldError{Field: "price", Message: "price must be a number"}, errs[1])
		assert.Equal(t, FieldError{Field: "image_url", Message: "image url must be a valid URL"}, errs[2])
		assert.Equal(t, "name is required; price must be a number; image url must be a valid URL", err.Error())
	})

	t.Run("Max Length", func(t *testing.T) {
		err := v.Validate(sampleForm{Name: "A very long turf name", Price: "1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name must be at most 10 characters")
	})

	t.Run("Empty Feature", func(t *testing.T) {
		err := v.Validate(sampleForm{Name: "Arena", Price: "1", Features: []string{""}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "features[0] is required")
	})

	t.Run("Nil Pointer", func(t *testing.T) {
		var form *sampleForm
		err := v.Validate(form)
		require.Error(t, err)

		var errs Errors
		assert.False(t, errors.As(err, &errs))
	})
}
