package neba_test

import (
	"testing"

	neba "github.com/Descanonge/neba-sub001"

	"github.com/stretchr/testify/require"
)

func TestVersion_DefaultValues(t *testing.T) {
	t.Parallel()

	require.Equal(t, "dev", neba.Version)
	require.Equal(t, "dev", neba.FrameworkVersion)
	require.Equal(t, "unknown", neba.CompiledAt)
}
