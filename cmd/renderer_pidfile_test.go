package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestGetPidFilePath(t *testing.T) {
	dir := t.TempDir()
	path := getPidFilePath(dir)
	if filepath.Dir(path) != dir || filepath.Base(path) != pidFileName {
		t.Fatalf("unexpected path %s", path)
	}
}

func TestWriteReadRemovePidFile(t *testing.T) {
	dir := t.TempDir()
	if err := WritePidFile(dir); err != nil {
		t.Fatalf("WritePidFile: %v", err)
	}
	pid, err := ReadPidFile(dir)
	if err != nil {
		t.Fatalf("ReadPidFile: %v", err)
	}
	if pid != os.Getpid() {
		t.Fatalf("expected PID %d, got %d", os.Getpid(), pid)
	}
	if err := RemovePidFile(dir); err != nil {
		t.Fatalf("RemovePidFile: %v", err)
	}
	if err := RemovePidFile(dir); err != nil {
		t.Fatalf("second RemovePidFile: %v", err)
	}
}

func TestReadPidFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not a number", "not-a-number"},
		{"zero", "0"},
		{"negative", "-5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(getPidFilePath(dir), []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := ReadPidFile(dir); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	if _, err := ReadPidFile(t.TempDir()); !os.IsNotExist(err) {
		t.Fatalf("expected not exist error, got %v", err)
	}
}

func TestIsProcessRunning(t *testing.T) {
	if !isProcessRunning(os.Getpid()) {
		t.Fatal("current process should be running")
	}
	if isProcessRunning(999999999) {
		t.Fatal("implausible PID reported running")
	}
}

func TestClaimPidFile(t *testing.T) {
	dir := t.TempDir()
	// A stale file from a dead renderer is taken over.
	if err := os.WriteFile(getPidFilePath(dir), []byte("999999999"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := claimPidFile(dir); err != nil {
		t.Fatalf("claim over stale file: %v", err)
	}
	// Reclaiming our own file is fine.
	if err := claimPidFile(dir); err != nil {
		t.Fatalf("reclaim: %v", err)
	}
}

func TestClaimPidFileHeldByLiveProcess(t *testing.T) {
	dir := t.TempDir()
	ppid := os.Getppid()
	if ppid <= 1 || !isProcessRunning(ppid) {
		t.Skip("no live parent process to stand in for a renderer")
	}
	if err := os.WriteFile(getPidFilePath(dir), []byte(strconv.Itoa(ppid)), 0644); err != nil {
		t.Fatal(err)
	}
	if err := claimPidFile(dir); !errors.Is(err, errAlreadyRunning) {
		t.Fatalf("expected already running, got %v", err)
	}
}
