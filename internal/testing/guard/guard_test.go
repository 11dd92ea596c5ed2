package guard

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImportEnablesTestMode(t *testing.T) {
	require.Equal(t, "1", os.Getenv("BAKERY_TEST_MODE"))
}
