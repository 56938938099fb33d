//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestApplicationExit(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(), "Failed to start app")

	// Wait for TUI to initialize and render
	require.True(t, tf.Ready(), "Should receive ready signal")
	require.True(t, tf.SeePlain("tvnav"), "Should show tvnav title")

	done := make(chan error, 1)
	go func() {
		done <- tf.cmd.Wait()
	}()

	t.Logf("Sending 'q' to quit application...")
	tf.Quit()

	select {
	case exitErr := <-done:
		require.NoError(t, exitErr, "Process should exit cleanly with 'q'")
	case <-time.After(2 * time.Second):
		tf.DumpTailOnFail(t, "exit-failure", 4096)
		tf.SendCtrlC()
		t.Fatal("Application did not exit after 'q'")
	}
}

func TestBackOnGridLeavesApplication(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")

	done := make(chan error, 1)
	go func() {
		done <- tf.cmd.Wait()
	}()

	// Open and close the detail first: the history it pushed must be gone
	tf.Enter()
	require.True(t, tf.SeePlain("Engineers keep a relay alive."), "Detail should open")
	tf.Back()
	time.Sleep(200 * time.Millisecond)

	select {
	case <-done:
		t.Fatal("Closing the detail must not leave the app")
	default:
	}

	tf.Back()
	select {
	case exitErr := <-done:
		require.NoError(t, exitErr, "Leaving the page should exit cleanly")
	case <-time.After(2 * time.Second):
		tf.DumpTailOnFail(t, "back-exit-failure", 4096)
		tf.SendCtrlC()
		t.Fatal("Back with nothing open should leave the app")
	}
}
