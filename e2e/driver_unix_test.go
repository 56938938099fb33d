//go:build e2e && unix

package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

// screenLimit caps how much output is kept; older bytes are dropped
const screenLimit = 1 << 20

var binPath = "tvnav_e2e"

// Remote keys as the terminal sends them
const (
	keyEnter  = "\r"
	keyCtrlC  = "\x03"
	keyEscape = "\x1b"
	keyDown   = "\x1b[B"
	keyRight  = "\x1b[C"
	keyLeft   = "\x1b[D"
	keyQuit   = "q"
	KeyHelp   = "?"
	KeySearch = "/"
	keyRemote = "b"
)

// ansiRe matches CSI, OSC, charset and keypad sequences plus carriage returns
var ansiRe = regexp.MustCompile(
	`(?:\x1b\[[0-9;?]*[ -/]*[@-~])|(?:\x1b\][^\x07]*\x07)|(?:\x1b[\(\)][A-Za-z])|(?:\x1b[=>])|\r`,
)

// TUITestFramework runs tvnav in a pseudo terminal and records its screen output
type TUITestFramework struct {
	t         *testing.T
	ptmx      *os.File
	cmd       *exec.Cmd
	workspace string

	mu     sync.Mutex
	screen bytes.Buffer
}

func NewTUITest(t *testing.T) *TUITestFramework {
	return &TUITestFramework{t: t}
}

// StartApp launches tvnav against the test workspace on a 120x40 terminal
func (tf *TUITestFramework) StartApp(args ...string) error {
	if tf.workspace == "" {
		if _, err := tf.CreateTestWorkspace(); err != nil {
			return err
		}
	}

	argv := append([]string{
		"-c", tf.ConfigPath(),
		"--log-file", filepath.Join(tf.workspace, "tvnav.log"),
	}, args...)
	tf.cmd = exec.Command(binPath, argv...)
	tf.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"LANG=C",
		"HOME="+tf.workspace,
	)

	ptmx, err := pty.StartWithSize(tf.cmd, &pty.Winsize{Rows: 40, Cols: 120})
	if err != nil {
		return fmt.Errorf("failed to start tvnav in a pty: %w", err)
	}
	tf.ptmx = ptmx
	go tf.record()
	return nil
}

func (tf *TUITestFramework) record() {
	chunk := make([]byte, 8192)
	for {
		n, err := tf.ptmx.Read(chunk)
		if n > 0 {
			tf.mu.Lock()
			tf.screen.Write(chunk[:n])
			if over := tf.screen.Len() - screenLimit; over > 0 {
				tf.screen.Next(over)
			}
			tf.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// SendKeys writes raw input to the terminal
func (tf *TUITestFramework) SendKeys(keys string) error {
	tf.t.Helper()
	_, err := tf.ptmx.Write([]byte(keys))
	return err
}

func (tf *TUITestFramework) SendCtrlC() error { return tf.SendKeys(keyCtrlC) }
func (tf *TUITestFramework) Quit() error      { return tf.SendKeys(keyQuit) }
func (tf *TUITestFramework) Enter() error     { return tf.SendKeys(keyEnter) }
func (tf *TUITestFramework) Down() error      { return tf.SendKeys(keyDown) }
func (tf *TUITestFramework) Left() error      { return tf.SendKeys(keyLeft) }
func (tf *TUITestFramework) Right() error     { return tf.SendKeys(keyRight) }

// Back presses the remote back key
func (tf *TUITestFramework) Back() error { return tf.SendKeys(keyEscape) }

// RemoteBack raises the backbutton signal
func (tf *TUITestFramework) RemoteBack() error { return tf.SendKeys(keyRemote) }

// Ready waits for the first highlight, announced in the status line
func (tf *TUITestFramework) Ready() bool {
	tf.t.Helper()
	return tf.WaitFor(containsPlain(" titles"), 5*time.Second)
}

// SeePlain waits for text to appear once escape sequences are stripped
func (tf *TUITestFramework) SeePlain(text string) bool {
	tf.t.Helper()
	return tf.WaitFor(containsPlain(text), 3*time.Second)
}

func (tf *TUITestFramework) WaitForStatusMessage(message string, timeout time.Duration) bool {
	tf.t.Helper()
	return tf.WaitFor(containsPlain(message), timeout)
}

// WaitFor polls the recorded output until pred holds or the timeout passes
func (tf *TUITestFramework) WaitFor(pred func(string) bool, timeout time.Duration) bool {
	tf.t.Helper()
	return tf.WaitForE(pred, timeout, "") == nil
}

// WaitForE is WaitFor with the tail of the screen in the error
func (tf *TUITestFramework) WaitForE(pred func(string) bool, timeout time.Duration, failMsg string) error {
	tf.t.Helper()
	deadline := time.Now().Add(timeout)
	for !pred(tf.Snapshot()) {
		if time.Now().After(deadline) {
			return fmt.Errorf("%s\n--- tail ---\n%s", failMsg, tail(tf.SnapshotPlain(), 4096))
		}
		time.Sleep(25 * time.Millisecond)
	}
	return nil
}

// Snapshot returns everything recorded so far
func (tf *TUITestFramework) Snapshot() string {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return tf.screen.String()
}

func (tf *TUITestFramework) SnapshotPlain() string {
	return ansiRe.ReplaceAllString(tf.Snapshot(), "")
}

// DumpTailOnFail saves the last n bytes of plain output for debugging
func (tf *TUITestFramework) DumpTailOnFail(t *testing.T, name string, n int) {
	p := filepath.Join(t.TempDir(), name+".txt")
	_ = os.WriteFile(p, []byte(tail(tf.SnapshotPlain(), n)), 0644)
	t.Logf("Saved tail to %s", p)
}

// Cleanup closes the terminal, stops tvnav and removes the workspace
func (tf *TUITestFramework) Cleanup() {
	if tf.ptmx != nil {
		_ = tf.ptmx.Close()
		tf.ptmx = nil
	}
	if tf.cmd != nil && tf.cmd.Process != nil {
		_ = tf.cmd.Process.Kill()
		_, _ = tf.cmd.Process.Wait()
		tf.cmd = nil
	}
	if tf.workspace != "" {
		_ = os.RemoveAll(tf.workspace)
		tf.workspace = ""
	}
}

func containsPlain(text string) func(string) bool {
	return func(s string) bool {
		return strings.Contains(ansiRe.ReplaceAllString(s, ""), text)
	}
}

func tail(s string, n int) string {
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}
