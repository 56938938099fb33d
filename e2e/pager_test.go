//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHelpPager(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")

	tf.SendKeys(KeyHelp)
	require.NoError(t, tf.WaitForE(containsPlain("tvnav Help"), 3*time.Second, "help pager should open"))

	// Press 'q' to exit pager
	tf.Quit()
	time.Sleep(300 * time.Millisecond)

	before := tf.Snapshot()
	tf.Right()
	require.True(t, tf.WaitFor(func(s string) bool { return s != before }, 2*time.Second), "Grid should respond after the pager closes")
	require.Nil(t, tf.cmd.ProcessState, "Closing the pager must not quit the app")
}
