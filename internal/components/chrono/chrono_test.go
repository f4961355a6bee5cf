package chrono

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStandardImplLocation(t *testing.T) {
	clock, err := NewStandardImpl()
	require.NoError(t, err)
	require.Equal(t, DefaultLocation, clock.Now().Location().String())

	_, err = NewStandardImplIn("Nowhere/Atlantis")
	require.Error(t, err)
}

func TestFixedImpl(t *testing.T) {
	at := time.Date(2024, time.October, 1, 9, 0, 0, 0, time.UTC)
	require.Equal(t, at, FixedImpl{At: at}.Now())
}
