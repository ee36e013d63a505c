package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/journey/pkg/store/storetest"
)

// Set JOURNEY_TEST_POSTGRES_DSN to run against a live database.
func TestContract(t *testing.T) {
	dsn := os.Getenv("JOURNEY_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("JOURNEY_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	s, err := Connect(ctx, dsn, "journeys_contract_test")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.DropSchema(ctx)
		_ = s.Close()
	})
	require.NoError(t, s.DropSchema(ctx))
	require.NoError(t, s.CreateSchema(ctx))

	storetest.Run(t, s)
}

func TestNewSanitizesTable(t *testing.T) {
	s := New(nil, `journeys"; DROP TABLE users; --`)
	if s.table != `"journeys""; DROP TABLE users; --"` {
		t.Errorf("table = %s, want quoted identifier", s.table)
	}
	if got := New(nil, "").table; got != `"journeys"` {
		t.Errorf("default table = %s, want \"journeys\"", got)
	}
}
