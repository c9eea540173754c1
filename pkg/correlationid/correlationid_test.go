package correlationid_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/storefront-catalog/pkg/correlationid"
)

func TestCorrelationIDContext(t *testing.T) {
	t.Run("Should return false for empty context", func(t *testing.T) {
		_, ok := correlationid.FromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("Should round-trip generated id", func(t *testing.T) {
		id := correlationid.New()
		_, err := uuid.Parse(id)
		assert.NoError(t, err)

		got, ok := correlationid.FromContext(correlationid.NewContext(context.Background(), id))
		assert.True(t, ok)
		assert.Equal(t, id, got)
	})

	t.Run("Should ignore empty id", func(t *testing.T) {
		_, ok := correlationid.FromContext(correlationid.NewContext(context.Background(), ""))
		assert.False(t, ok)
	})
}
