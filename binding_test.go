package pagetrack_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagetrack"
)

func TestBindingValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, pagetrack.Binding{Label: "BUY", Selector: "#buy"}.Validate())
	require.ErrorIs(t, pagetrack.Binding{Selector: "#buy"}.Validate(), pagetrack.ErrInvalidInteractionBinding)
	require.ErrorIs(t, pagetrack.Binding{Label: "BUY"}.Validate(), pagetrack.ErrInvalidInteractionBinding)
}

func TestLoadBindings(t *testing.T) {
	t.Parallel()

	t.Run("valid file", func(t *testing.T) {
		t.Parallel()
		f, err := pagetrack.LoadBindings("testdata/bindings.yaml")
		require.NoError(t, err)
		assert.Equal(t, []pagetrack.Binding{
			{Label: "ADD_TO_CART", Selector: "#add-to-cart"},
			{Label: "WISHLIST", Selector: ".wishlist button"},
		}, f.Clicks)
		assert.Equal(t, []pagetrack.Binding{{Label: "REVIEWS", Selector: "#reviews"}}, f.Scrolls)
	})

	t.Run("binding without selector", func(t *testing.T) {
		t.Parallel()
		_, err := pagetrack.LoadBindings("testdata/invalid_bindings.yaml")
		require.ErrorIs(t, err, pagetrack.ErrInvalidInteractionBinding)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := pagetrack.LoadBindings("testdata/nope.yaml")
		require.Error(t, err)
	})
}
