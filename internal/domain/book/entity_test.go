package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidISBN(t *testing.T) {
	valid := []string{"9787115428028", "978-7-115-42802-8", "0-306-40615-2", "030640615X", "978 7 115 42802 8"}
	for _, s := range valid {
		assert.True(t, IsValidISBN(s), s)
	}
	invalid := []string{"", "12345", "97871154280281", "978711542802A", "03064061XX"}
	for _, s := range invalid {
		assert.False(t, IsValidISBN(s), s)
	}
}

func TestBook_Validate(t *testing.T) {
	b := NewBook("Go", "x", "", 0, "", "", "", 100, 0, 1)
	assert.Equal(t, ConditionNew, b.Condition)
	require.NoError(t, b.Validate())

	tests := []struct {
		name string
		edit func(b *Book)
		want error
	}{
		{"书名为空", func(b *Book) { b.Title = "" }, ErrTitleRequired},
		{"负价格", func(b *Book) { b.Price = -1 }, ErrInvalidPrice},
		{"负库存", func(b *Book) { b.Stock = -1 }, ErrInvalidStock},
		{"成色非法", func(b *Book) { b.Condition = "mint" }, ErrInvalidCondition},
		{"ISBN非法", func(b *Book) { b.ISBN = "123" }, ErrInvalidISBN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBook("Go", "x", "", 0, "", "", ConditionNew, 100, 1, 1)
			tt.edit(b)
			assert.ErrorIs(t, b.Validate(), tt.want)
		})
	}
}

func TestBook_Apply(t *testing.T) {
	b := NewBook("Go", "x", "", 0, "", "", ConditionNew, 100, 5, 1)

	price := int64(250)
	require.NoError(t, b.Apply(Patch{Price: &price}))
	assert.Equal(t, int64(250), b.Price)
	assert.Equal(t, "Go", b.Title)
	assert.Equal(t, 5, b.Stock)

	stock := -3
	assert.ErrorIs(t, b.Apply(Patch{Stock: &stock}), ErrInvalidStock)
}
