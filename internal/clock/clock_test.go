package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFacilityZone(t *testing.T) {
	loc, err := LoadFacilityZone("Europe/Madrid")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Madrid", loc.String())

	_, err = LoadFacilityZone("Nowhere/Atlantis")
	assert.Error(t, err)
}

func TestNew_ReportsInZone(t *testing.T) {
	loc, err := LoadFacilityZone("Europe/Madrid")
	require.NoError(t, err)

	now := New(loc).Now()
	assert.Equal(t, loc, now.Location())
}

func TestFixed(t *testing.T) {
	at := time.Date(2024, 3, 1, 14, 50, 0, 0, time.UTC)
	assert.True(t, Fixed(at).Now().Equal(at))
}
