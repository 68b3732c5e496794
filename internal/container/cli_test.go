package container

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"
)

func TestCLIManager_ImplementsManagerInterface(t *testing.T) {
	var _ Manager = (*CLIManager)(nil)
}

func TestCLIManager_NewCLIManager(t *testing.T) {
	mgr := NewCLIManager("docker")
	if mgr == nil {
		t.Fatal("NewCLIManager returned nil")
	}
	if mgr.runtime != "docker" {
		t.Errorf("expected runtime docker, got %s", mgr.runtime)
	}
}

func TestCreateArgs_Ordering(t *testing.T) {
	cfg := RunConfig{
		Image:   "vessel/build:abc123",
		Name:    "vessel-test",
		Env:     map[string]string{"RUST_LOG": "debug"},
		Cmd:     []string{"make", "all"},
		WorkDir: "/work",
		Binds:   []string{"/home/me/proj:/work"},
	}
	args := createArgs(cfg)
	joined := strings.Join(args, " ")

	if !strings.Contains(joined, "--name vessel-test") {
		t.Errorf("missing --name flag in %q", joined)
	}
	if !strings.Contains(joined, "-v /home/me/proj:/work") {
		t.Errorf("missing bind mount in %q", joined)
	}
	if !strings.Contains(joined, "-e RUST_LOG=debug") {
		t.Errorf("missing env flag in %q", joined)
	}
	if !strings.Contains(joined, "-w /work") {
		t.Errorf("missing workdir flag in %q", joined)
	}
	// Image must come before the command vector so the runtime does not
	// interpret command words as flags.
	if !strings.HasSuffix(joined, "vessel/build:abc123 make all") {
		t.Errorf("image and command must come last, got %q", joined)
	}
}

func TestCreateArgs_OmitsEmptyFields(t *testing.T) {
	args := createArgs(RunConfig{Image: "alpine:latest", Name: "n", Cmd: []string{"true"}})
	joined := strings.Join(args, " ")
	if strings.Contains(joined, "-w") {
		t.Errorf("unexpected workdir flag in %q", joined)
	}
	if strings.Contains(joined, "-e") {
		t.Errorf("unexpected env flag in %q", joined)
	}
}

func TestCLIManager_FullLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	runtime, err := DetectRuntime()
	if err != nil {
		t.Skip("no container runtime available")
	}

	mgr := NewCLIManager(runtime)
	ctx := context.Background()

	cfg := RunConfig{
		Image: "alpine:latest",
		Name:  fmt.Sprintf("test-%d", time.Now().UnixNano()),
		Cmd:   []string{"sh", "-c", "echo hello && exit 42"},
	}

	// Create
	id, err := mgr.Create(ctx, cfg)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	t.Cleanup(func() {
		mgr.Remove(context.Background(), id)
	})

	if id == "" {
		t.Error("Create returned empty container ID")
	}

	// Start
	if err := mgr.Start(ctx, id); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Wait
	exitCode, err := mgr.Wait(ctx, id)
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if exitCode != 42 {
		t.Errorf("expected exit code 42, got %d", exitCode)
	}
}

func TestCLIManager_RunAttached(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	runtime, err := DetectRuntime()
	if err != nil {
		t.Skip("no container runtime available")
	}

	mgr := NewCLIManager(runtime)
	ctx := context.Background()

	var stdout, stderr bytes.Buffer
	cfg := RunConfig{
		Image: "alpine:latest",
		Name:  fmt.Sprintf("test-run-%d", time.Now().UnixNano()),
		Cmd:   []string{"sh", "-c", "echo out && echo err >&2 && exit 7"},
	}

	code, err := mgr.RunAttached(ctx, cfg, strings.NewReader(""), &stdout, &stderr)
	if err != nil {
		t.Fatalf("RunAttached failed: %v", err)
	}
	if code != 7 {
		t.Errorf("expected exit code 7, got %d", code)
	}
	if !strings.Contains(stdout.String(), "out") {
		t.Errorf("stdout missing output: %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "err") {
		t.Errorf("stderr missing output: %q", stderr.String())
	}
}

func TestCLIManager_LogStreaming(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	runtime, err := DetectRuntime()
	if err != nil {
		t.Skip("no container runtime available")
	}

	mgr := NewCLIManager(runtime)
	ctx := context.Background()

	cfg := RunConfig{
		Image: "alpine:latest",
		Name:  fmt.Sprintf("test-logs-%d", time.Now().UnixNano()),
		Cmd:   []string{"sh", "-c", "echo line1 && echo line2 && echo line3"},
	}

	id, err := mgr.Create(ctx, cfg)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	t.Cleanup(func() {
		mgr.Remove(context.Background(), id)
	})

	if err := mgr.Start(ctx, id); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Wait for container to finish first
	mgr.Wait(ctx, id)

	// Now get logs
	logs, err := mgr.Logs(ctx, id)
	if err != nil {
		t.Fatalf("Logs failed: %v", err)
	}
	defer logs.Close()

	output, err := io.ReadAll(logs)
	if err != nil {
		t.Fatalf("failed to read logs: %v", err)
	}

	for _, want := range []string{"line1", "line2", "line3"} {
		if !strings.Contains(string(output), want) {
			t.Errorf("logs missing expected output %q", want)
		}
	}
}

func TestCLIManager_CreateWithEnvAndWorkDir(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	runtime, err := DetectRuntime()
	if err != nil {
		t.Skip("no container runtime available")
	}

	mgr := NewCLIManager(runtime)
	ctx := context.Background()

	cfg := RunConfig{
		Image:   "alpine:latest",
		Name:    fmt.Sprintf("test-env-%d", time.Now().UnixNano()),
		Env:     map[string]string{"TEST_VAR": "test_value"},
		WorkDir: "/tmp",
		Cmd:     []string{"sh", "-c", "echo $TEST_VAR && pwd"},
	}

	id, err := mgr.Create(ctx, cfg)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	t.Cleanup(func() {
		mgr.Remove(context.Background(), id)
	})

	if err := mgr.Start(ctx, id); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	mgr.Wait(ctx, id)

	logs, err := mgr.Logs(ctx, id)
	if err != nil {
		t.Fatalf("Logs failed: %v", err)
	}
	defer logs.Close()

	output, _ := io.ReadAll(logs)
	outputStr := string(output)

	if !strings.Contains(outputStr, "test_value") {
		t.Error("environment variable not set correctly")
	}
	if !strings.Contains(outputStr, "/tmp") {
		t.Error("working directory not set correctly")
	}
}

func TestCLIManager_StopContainer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	runtime, err := DetectRuntime()
	if err != nil {
		t.Skip("no container runtime available")
	}

	mgr := NewCLIManager(runtime)
	ctx := context.Background()

	cfg := RunConfig{
		Image: "alpine:latest",
		Name:  fmt.Sprintf("test-stop-%d", time.Now().UnixNano()),
		Cmd:   []string{"sleep", "300"},
	}

	id, err := mgr.Create(ctx, cfg)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	t.Cleanup(func() {
		mgr.Remove(context.Background(), id)
	})

	if err := mgr.Start(ctx, id); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Stop with short timeout
	if err := mgr.Stop(ctx, id, 1*time.Second); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	// Container should now be stopped, Remove should work
	if err := mgr.Remove(ctx, id); err != nil {
		t.Errorf("Remove after stop failed: %v", err)
	}
}
