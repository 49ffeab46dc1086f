package errors_test

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/code-with-shadow/adhunik-art/pkg/errors"
)

func TestDumpWalksChain(t *testing.T) {
	root := fmt.Errorf("connection refused")
	err := pkgerrors.Wrap(pkgerrors.CodeDependency, root, "load paintings")

	d := pkgerrors.Dump(err)
	assert.Equal(t, pkgerrors.CodeDependency, d.Code)
	assert.Contains(t, d.TopMessage, "load paintings")
	assert.Len(t, d.Chain, 2)
	assert.Contains(t, d.Chain[1], "connection refused")
}

func TestDumpExtractsPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "idx_orders_payment_ref",
		TableName:      "orders",
		Message:        "duplicate key value violates unique constraint",
	}
	err := pkgerrors.Wrap(pkgerrors.CodeConflict, pgErr, "create order")

	d := pkgerrors.Dump(err)
	assert.Equal(t, "23505", d.PGCode)
	assert.Equal(t, "idx_orders_payment_ref", d.PGConstraint)
	assert.Equal(t, "orders", d.PGTable)
	assert.Contains(t, d.PGMessage, "duplicate key")
}

func TestDumpNilError(t *testing.T) {
	d := pkgerrors.Dump(nil)
	assert.Empty(t, d.TopMessage)
	assert.Empty(t, d.Chain)
}
