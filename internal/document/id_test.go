package document

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIDGenerators_UniqueAndOrdered(t *testing.T) {
	for _, scheme := range []string{"ulid", "uuid"} {
		t.Run(scheme, func(t *testing.T) {
			gen, err := NewIDGenerator(scheme)
			require.NoError(t, err)

			const n = 1000
			seen := make(map[string]struct{}, n)
			ids := make([]string, 0, n)
			for i := 0; i < n; i++ {
				id, err := gen.NewID()
				require.NoError(t, err)
				require.NotEmpty(t, id)
				_, dup := seen[id]
				require.False(t, dup, "duplicate id %s", id)
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
			// issued order must equal lexicographic order
			require.True(t, sort.StringsAreSorted(ids))
		})
	}
}

func TestNewIDGenerator_UnknownScheme(t *testing.T) {
	_, err := NewIDGenerator("snowflake")
	require.Error(t, err)
}
