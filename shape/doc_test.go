package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssertInvariant(t *testing.T) {
	assert.NotPanics(t, func() { assertInvariant(true, "fine") })
	assert.PanicsWithValue(t, "broken", func() { assertInvariant(false, "broken") })
}
