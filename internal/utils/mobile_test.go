package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMobileNumber(t *testing.T) {
	t.Run("numéro valide", func(t *testing.T) {
		formatted, err := FormatMobileNumber("03119288190")
		require.NoError(t, err)
		assert.Equal(t, "0311-9288190", formatted)
	})

	t.Run("lettres interdites", func(t *testing.T) {
		_, err := FormatMobileNumber("0311abc8190")
		assert.Error(t, err)
	})

	t.Run("trop court", func(t *testing.T) {
		_, err := FormatMobileNumber("0311928")
		assert.Error(t, err)
	})

	t.Run("trop long", func(t *testing.T) {
		_, err := FormatMobileNumber("031192881901")
		assert.Error(t, err)
	})
}
