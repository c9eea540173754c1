package zerror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/storefront-catalog/pkg/zerror"
)

func TestZError(t *testing.T) {
	notFound := zerror.NewNotFound("PRODUCT_NOT_FOUND", "product not found")

	t.Run("Should match predeclared error after wrapping parent", func(t *testing.T) {
		parent := errors.New("no rows")
		err := fmt.Errorf("get product: %w", notFound.WrapParent(parent))

		assert.ErrorIs(t, err, notFound)
		assert.ErrorIs(t, err, parent)

		var zErr zerror.ZError
		assert.True(t, errors.As(err, &zErr))
		assert.Equal(t, zerror.StatusNotFound, zErr.Status())
		assert.Equal(t, "PRODUCT_NOT_FOUND", zErr.Code())
		assert.Equal(t, "product not found", zErr.Msg())
	})

	t.Run("Should not match error with different code", func(t *testing.T) {
		other := zerror.NewNotFound("PROMO_NOT_FOUND", "promo not found")
		assert.NotErrorIs(t, notFound, other)
	})

	t.Run("Should keep receiver when wrapping nil", func(t *testing.T) {
		assert.Nil(t, notFound.WrapParent(nil).Parent())
	})

	t.Run("Should include parent in message", func(t *testing.T) {
		err := notFound.WrapParent(errors.New("boom"))
		assert.Equal(t, "Code=PRODUCT_NOT_FOUND, Msg=product not found, Parent=(boom)", err.Error())
	})
}
