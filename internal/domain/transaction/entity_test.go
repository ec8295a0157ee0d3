package transaction

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	tx, err := NewTransaction(7, []LineItem{
		NewLineItem(1, "A", 4, 50000),
		NewLineItem(2, "B", 2, 150),
	})
	require.NoError(t, err)

	assert.True(t, IsValidID(tx.ID))
	assert.Equal(t, 6, tx.TotalQuantity)
	assert.Equal(t, int64(200300), tx.TotalPrice)
	assert.Equal(t, int64(300), tx.Items[1].Subtotal)
	for _, it := range tx.Items {
		assert.Equal(t, tx.ID, it.TransactionID)
	}
	assert.True(t, tx.IsOwnedBy(7))
	assert.False(t, tx.IsOwnedBy(8))
}

func TestNewTransaction_Invalid(t *testing.T) {
	_, err := NewTransaction(1, nil)
	assert.ErrorIs(t, err, ErrInvalidLineItems)

	_, err = NewTransaction(1, []LineItem{NewLineItem(1, "A", 0, 100)})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestNewID_TimeOrdered(t *testing.T) {
	first, err := NewID()
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := NewID()
	require.NoError(t, err)

	assert.Less(t, strings.Compare(first, second), 0)
	assert.False(t, IsValidID("not-a-uuid"))
}
