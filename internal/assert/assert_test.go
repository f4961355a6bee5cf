package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type client struct{}

func TestNotNil(t *testing.T) {
	var typed *client
	require.Panics(t, func() { NotNil(nil) })
	require.Panics(t, func() { NotNil(typed) })
	require.NotPanics(t, func() { NotNil(&client{}) })
	require.NotPanics(t, func() { NotNil(client{}) })
}

func TestPositive(t *testing.T) {
	require.Panics(t, func() { Positive(0) })
	require.Panics(t, func() { Positive(-3) })
	require.NotPanics(t, func() { Positive(3) })
}
