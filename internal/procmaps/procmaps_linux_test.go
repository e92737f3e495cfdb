package procmaps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	mappings, err := Read()
	require.NoError(t, err)
	require.NotEmpty(t, mappings)

	for _, m := range mappings {
		assert.Less(t, m.Start, m.End)
	}
}
