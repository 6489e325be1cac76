package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	Quantity int             `json:"quantity" validate:"gt=0"`
	Price    decimal.Decimal `json:"price" validate:"gte=0"`
}

type order struct {
	Method string `json:"paymentMethod" validate:"notblank"`
	Lines  []line `json:"items" validate:"dive"`
}

func TestValidateStructAcceptsValidInput(t *testing.T) {
	errs := ValidateStruct(&order{
		Method: "cash",
		Lines:  []line{{Quantity: 1, Price: decimal.NewFromInt(0)}},
	})
	assert.Empty(t, errs)
}

func TestValidateStructReportsJSONPaths(t *testing.T) {
	errs := ValidateStruct(&order{
		Method: "  ",
		Lines:  []line{{Quantity: 1, Price: decimal.NewFromInt(5)}, {Quantity: 0, Price: decimal.NewFromInt(-1)}},
	})
	require.Len(t, errs, 3)

	fields := map[string]string{}
	for _, e := range errs {
		fields[e.FailedField] = e.Tag
	}
	assert.Equal(t, "notblank", fields["paymentMethod"])
	assert.Equal(t, "gt", fields["items[1].quantity"])
	assert.Equal(t, "gte", fields["items[1].price"])
}
