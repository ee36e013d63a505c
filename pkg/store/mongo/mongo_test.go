package mongo

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/journey/pkg/store/storetest"
)

// Set JOURNEY_TEST_MONGO_URI to run against a live server.
func TestContract(t *testing.T) {
	uri := os.Getenv("JOURNEY_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("JOURNEY_TEST_MONGO_URI not set")
	}
	ctx := context.Background()

	s, err := Connect(ctx, uri, "journey_test", "contract")
	require.NoError(t, err)
	require.NoError(t, s.Drop(ctx))
	t.Cleanup(func() {
		_ = s.Drop(ctx)
		_ = s.Close()
	})

	storetest.Run(t, s)
}
