package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorySetStorageForm(t *testing.T) {
	for bits := 0; bits < 8; bits++ {
		s := CategorySet(bits)
		parsed, err := ParseCategories(s.Join())
		require.NoError(t, err)
		assert.Equal(t, s, parsed, "subset %03b", bits)
	}
}

func TestParseCategories(t *testing.T) {
	s, err := ParseCategories(" Drinks ,mains,,")
	require.NoError(t, err)
	assert.Equal(t, NewCategorySet(CategoryMains, CategoryDrinks), s)
	assert.Equal(t, "mains,drinks", s.Join())

	_, err = ParseCategories("mains,pizza")
	assert.ErrorIs(t, err, ErrInvalidCategory)

	empty, err := ParseCategories("")
	require.NoError(t, err)
	assert.True(t, empty.Empty())
}

func TestCategorySetToggle(t *testing.T) {
	var s CategorySet
	s = s.Toggle(CategoryDesserts)
	assert.True(t, s.Has(CategoryDesserts))
	s = s.Toggle(CategoryDesserts)
	assert.True(t, s.Empty())

	s = s.Add(CategoryMains).Add(CategoryMains)
	assert.Equal(t, []Category{CategoryMains}, s.Slice())
	assert.True(t, s.Remove(CategoryMains).Empty())
}

func TestCategorySetJSON(t *testing.T) {
	out, err := json.Marshal(NewCategorySet(CategoryDesserts, CategoryMains))
	require.NoError(t, err)
	assert.JSONEq(t, `["mains","desserts"]`, string(out))

	var fromList CategorySet
	require.NoError(t, json.Unmarshal([]byte(`["drinks"]`), &fromList))
	assert.Equal(t, NewCategorySet(CategoryDrinks), fromList)

	var fromString CategorySet
	require.NoError(t, json.Unmarshal([]byte(`"drinks,desserts"`), &fromString))
	assert.Equal(t, NewCategorySet(CategoryDrinks, CategoryDesserts), fromString)

	var bad CategorySet
	assert.Error(t, json.Unmarshal([]byte(`["soup"]`), &bad))
}
