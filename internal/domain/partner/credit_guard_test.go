package partner

import (
	"testing"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestCreditLimitGuard_Check(t *testing.T) {
	scope := shared.NewScope(uuid.New(), uuid.New())
	guard := NewCreditLimitGuard()

	newCustomer := func(t *testing.T, limit, balance *decimal.Decimal) *Customer {
		t.Helper()
		c, err := NewCustomer(scope, "C001", "Acme")
		require.NoError(t, err)
		require.NoError(t, c.SetCredit(limit, balance))
		return c
	}

	t.Run("due exactly at the limit passes", func(t *testing.T) {
		c := newCustomer(t, decPtr(1000), decPtr(900))
		assert.NoError(t, guard.Check(scope, c, decimal.NewFromInt(100)))
	})

	t.Run("one above the limit is rejected", func(t *testing.T) {
		c := newCustomer(t, decPtr(1000), decPtr(900))
		err := guard.Check(scope, c, decimal.NewFromInt(101))
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrCreditLimitExceeded)
		assert.Equal(t, shared.KindValidation, shared.KindOf(err))
		assert.Contains(t, err.Error(), "C001")
	})

	t.Run("no limit means unbounded", func(t *testing.T) {
		c := newCustomer(t, nil, decPtr(900))
		assert.NoError(t, guard.Check(scope, c, decimal.NewFromInt(1_000_000)))
	})

	t.Run("no balance means unbounded", func(t *testing.T) {
		c := newCustomer(t, decPtr(1000), nil)
		assert.NoError(t, guard.Check(scope, c, decimal.NewFromInt(1_000_000)))
	})

	t.Run("refund never trips the guard", func(t *testing.T) {
		// already above the limit before the return
		c := newCustomer(t, decPtr(1000), decPtr(1100))
		assert.NoError(t, guard.Check(scope, c, decimal.NewFromInt(-50)))
		assert.NoError(t, guard.Check(scope, c, decimal.Zero))
		assert.ErrorIs(t, guard.Check(scope, c, decimal.NewFromInt(1)), shared.ErrCreditLimitExceeded)
	})

	t.Run("nil customer is a no-op", func(t *testing.T) {
		assert.NoError(t, guard.Check(scope, nil, decimal.NewFromInt(5)))
	})

	t.Run("customer from another scope is not found", func(t *testing.T) {
		c := newCustomer(t, decPtr(1000), decPtr(0))
		other := shared.NewScope(uuid.New(), scope.CompanyID)
		assert.ErrorIs(t, guard.Check(other, c, decimal.NewFromInt(1)), shared.ErrNotFound)
	})
}

func TestNewLocation(t *testing.T) {
	scope := shared.NewScope(uuid.New(), uuid.New())

	loc, err := NewLocation(scope, "wh1", "Main warehouse", LocationKindWarehouse)
	require.NoError(t, err)
	assert.Equal(t, "WH1", loc.Code)

	_, err = NewLocation(scope, "x", "", LocationKind("moon"))
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
