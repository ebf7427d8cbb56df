//go:build linux

package nfengine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/netfsutil/netfs-unlock/nflock"
	"golang.org/x/sys/unix"
)

const holdLockEnv = "NETFS_UNLOCK_TEST_HOLD_LOCK"

func TestMain(m *testing.M) {
	// When re-executed with the helper environment variable set, this
	// binary holds a lock on behalf of a test instead of running tests.
	if path := os.Getenv(holdLockEnv); path != "" {
		holdLock(path)
		return
	}
	os.Exit(m.Run())
}

// holdLock takes an exclusive whole-file lock on path and holds it until
// stdin is closed. It runs in a child process spawned by spawnHolder.
func holdLock(path string) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fl := wholeFile(unix.F_WRLCK)
	if err := unix.FcntlFlock(file.Fd(), unix.F_SETLK, &fl); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println("locked")
	io.Copy(io.Discard, os.Stdin)
}

// spawnHolder starts a child process that holds an exclusive lock on path.
// It returns once the child reports that the lock is in place. The returned
// function stops the child and waits for it to exit.
func spawnHolder(t *testing.T, path string) (stop func()) {
	t.Helper()

	cmd := exec.Command(os.Args[0])
	cmd.Env = append(os.Environ(), holdLockEnv+"="+path)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		t.Fatalf("failed to prepare the lock holder: %v", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		t.Fatalf("failed to prepare the lock holder: %v", err)
	}
	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start the lock holder: %v", err)
	}

	line, err := bufio.NewReader(stdout).ReadString('\n')
	if err != nil || !strings.HasPrefix(line, "locked") {
		cmd.Process.Kill()
		cmd.Wait()
		t.Fatalf("the lock holder did not report a held lock: %q, %v", line, err)
	}

	return func() {
		stdin.Close()
		cmd.Wait()
	}
}

func createTestFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "target.dat")
	if err := os.WriteFile(path, []byte("lock target content"), 0644); err != nil {
		t.Fatalf("failed to create the test file: %v", err)
	}
	return path
}

// lockFile takes an exclusive whole-file lock on path through a fresh
// handle and returns that handle. Closing it drops the lock.
func lockFile(t *testing.T, path string) *os.File {
	t.Helper()
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("failed to open the file for locking: %v", err)
	}
	fl := wholeFile(unix.F_WRLCK)
	if err := unix.FcntlFlock(file.Fd(), unix.F_SETLK, &fl); err != nil {
		file.Close()
		t.Fatalf("failed to lock the file: %v", err)
	}
	return file
}

func probeFile(t *testing.T, path string) nflock.State {
	t.Helper()
	target, err := OpenTarget(path)
	if err != nil {
		t.Fatalf("failed to open a probe target: %v", err)
	}
	defer target.Close()

	state, err := target.Probe()
	if err != nil {
		t.Fatalf("failed to probe the file: %v", err)
	}
	return state
}

func TestProbeUnlockedFile(t *testing.T) {
	path := createTestFile(t)

	if state := probeFile(t, path); state.Status != nflock.Unlocked {
		t.Errorf("status = %q, want %q", state.Status, nflock.Unlocked)
	}
}

func TestProbeReportsOwnLock(t *testing.T) {
	path := createTestFile(t)

	holder := lockFile(t, path)
	defer holder.Close()

	state := probeFile(t, path)
	if state.Status != nflock.LockedBySelf {
		t.Fatalf("status = %q, want %q", state.Status, nflock.LockedBySelf)
	}
	if int(state.Holder.PID) != os.Getpid() {
		t.Errorf("holder pid = %d, want %d", state.Holder.PID, os.Getpid())
	}
}

func TestProbeReportsOtherProcessLock(t *testing.T) {
	path := createTestFile(t)

	stop := spawnHolder(t, path)
	defer stop()

	state := probeFile(t, path)
	if state.Status != nflock.LockedByOther {
		t.Fatalf("status = %q, want %q", state.Status, nflock.LockedByOther)
	}
	if !state.Holder.Known() {
		t.Errorf("holder hint = %v, want a known pid", state.Holder)
	}
}

func TestReleaseOwnLockViaSecondHandle(t *testing.T) {
	path := createTestFile(t)

	// Hold a lock through one handle, release through another.
	holder := lockFile(t, path)
	defer holder.Close()

	engine := testEngine(nflock.ReleaseOptions{MaxRetries: 1})
	result, err := engine.ReleaseFile(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != nflock.Released {
		t.Fatalf("outcome = %q, want %q", result.Outcome, nflock.Released)
	}
	if result.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", result.Attempts)
	}

	// A third handle confirms that the lock is gone.
	if state := probeFile(t, path); state.Status != nflock.Unlocked {
		t.Errorf("status after release = %q, want %q", state.Status, nflock.Unlocked)
	}
}

func TestDryRunLeavesLockState(t *testing.T) {
	path := createTestFile(t)

	// The lock must belong to another process here. Closing any handle to
	// a file sheds all of the calling process's traditional locks on it,
	// so a lock held by this process would not survive the probe.
	stop := spawnHolder(t, path)
	defer stop()

	engine := testEngine(nflock.ReleaseOptions{MaxRetries: 1, DryRun: true})
	result, err := engine.ReleaseFile(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != nflock.Released {
		t.Fatalf("outcome = %q, want %q", result.Outcome, nflock.Released)
	}

	if state := probeFile(t, path); !state.Conflicting() {
		t.Error("the lock was altered by a dry run")
	}
}

func TestReleaseOtherProcessLockStaysHeld(t *testing.T) {
	path := createTestFile(t)

	stop := spawnHolder(t, path)
	defer stop()

	// A lock held by another process is not associated with this process's
	// lock table entry, so the unlock request cannot clear it.
	engine := testEngine(nflock.ReleaseOptions{
		MaxRetries:   2,
		RetryBackoff: 10 * time.Millisecond,
	})
	result, err := engine.ReleaseFile(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != nflock.StillLocked {
		t.Fatalf("outcome = %q, want %q", result.Outcome, nflock.StillLocked)
	}
	if result.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", result.Attempts)
	}
}
