package order_test

import (
	"testing"
	"time"

	"foodorder/internal/core/domain/model/order"
	"foodorder/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestType_Validate(t *testing.T) {
	t.Run("should accept the defined order types", func(t *testing.T) {
		assert.NoError(t, order.HomeDelivery.Validate())
		assert.NoError(t, order.Takeaway.Validate())
	})

	t.Run("should reject the zero value", func(t *testing.T) {
		assert.ErrorIs(t, order.TypeUnknown.Validate(), errs.ErrValueIsInvalid)
	})
}

func TestTypeFromString(t *testing.T) {
	t.Run("should round-trip both types", func(t *testing.T) {
		for _, orderType := range []order.Type{order.HomeDelivery, order.Takeaway} {
			parsed, err := order.TypeFromString(orderType.String())

			require.NoError(t, err)
			assert.Equal(t, orderType, parsed)
		}
	})

	t.Run("should fail on an unknown name", func(t *testing.T) {
		_, err := order.TypeFromString("Drone")

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestType_LeadTime(t *testing.T) {
	t.Run("should prepare home delivery faster than takeaway", func(t *testing.T) {
		assert.Equal(t, 2*time.Minute, order.HomeDelivery.LeadTime())
		assert.Equal(t, 10*time.Minute, order.Takeaway.LeadTime())
	})
}
