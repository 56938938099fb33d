//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCatalogReloadsOnChange(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")

	titles := append([]TestTitle{}, DefaultTitles...)
	titles = append(titles, TestTitle{ID: "foxtrot", Name: "Foxtrot Hall", Kind: "movie", Year: 2024})
	require.NoError(t, tf.WriteTitles(titles))

	require.True(t, tf.WaitForStatusMessage("Catalog reloaded: 6 titles", 5*time.Second), "Reload should be announced")
	require.True(t, tf.SeePlain("Foxtrot Hall"), "New title should render")
}

func TestSearchFiltersGrid(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")

	tf.SendKeys(KeySearch)
	time.Sleep(100 * time.Millisecond)
	tf.SendKeys("delta")
	require.True(t, tf.SeePlain("[Search: delta]"), "Query should show in the header")
	require.True(t, tf.SeePlain("1/5"), "Only one title should match")

	tf.Back()
	time.Sleep(200 * time.Millisecond)
	require.Nil(t, tf.cmd.ProcessState, "Escape in the search box must not leave the app")
}
