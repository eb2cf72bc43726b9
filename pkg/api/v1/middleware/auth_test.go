package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOwnerKeys(t *testing.T) {
	owners, err := ParseOwnerKeys("alpha:1,beta:2")
	require.NoError(t, err)
	assert.Equal(t, map[string]uint{"alpha": 1, "beta": 2}, owners)

	// whitespace around entries is tolerated
	owners, err = ParseOwnerKeys("alpha:1, beta:2")
	require.NoError(t, err)
	assert.Len(t, owners, 2)

	// empty input yields an empty table, not an error
	owners, err = ParseOwnerKeys("")
	require.NoError(t, err)
	assert.Empty(t, owners)

	for _, raw := range []string{"alpha", "alpha:", "alpha:abc", "alpha:0", ":1"} {
		_, err = ParseOwnerKeys(raw)
		assert.Error(t, err, "expected %q to be rejected", raw)
	}
}

func TestStaticVerifier(t *testing.T) {
	verifier := NewStaticVerifier(map[string]uint{"alpha": 7}, "worker-secret")
	ctx := context.Background()

	ownerID, err := verifier.VerifyOwner(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, uint(7), ownerID)

	_, err = verifier.VerifyOwner(ctx, "unknown")
	assert.Error(t, err)

	assert.NoError(t, verifier.VerifyWorker(ctx, "worker-secret"))
	assert.Error(t, verifier.VerifyWorker(ctx, "wrong"))
	assert.Error(t, verifier.VerifyWorker(ctx, ""))
}

func TestStaticVerifierEmptyWorkerKey(t *testing.T) {
	// an unset worker key disables the worker surface entirely
	verifier := NewStaticVerifier(nil, "")
	assert.Error(t, verifier.VerifyWorker(context.Background(), ""))
	assert.Error(t, verifier.VerifyWorker(context.Background(), "anything"))
}
