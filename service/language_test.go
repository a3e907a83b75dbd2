package service

import (
	"sort"
	"testing"

	"chatlink-auth/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguages(t *testing.T) {
	languages := Languages()
	require.NotEmpty(t, languages)

	assert.True(t, sort.SliceIsSorted(languages, func(i, j int) bool {
		return languages[i].Name < languages[j].Name
	}))

	byCode := make(map[string]string, len(languages))
	for _, l := range languages {
		assert.Len(t, l.Code, 2)
		assert.NotEmpty(t, l.Name)
		assert.True(t, validator.IsLanguageCode(l.Code), "listed code %q must pass validation", l.Code)
		byCode[l.Code] = l.Name
	}

	assert.Equal(t, "English", byCode["en"])
	assert.Equal(t, "German", byCode["de"])
	assert.Equal(t, "Japanese", byCode["ja"])
}

func TestLanguages_ReturnsCopy(t *testing.T) {
	first := Languages()
	first[0].Name = "changed"

	assert.NotEqual(t, "changed", Languages()[0].Name)
}
