package system

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestMockFS_ReadWriteFile(t *testing.T) {
	mockFS := NewMockFS()

	content := []byte("hello world")
	err := mockFS.WriteFile("/test/file.txt", content, 0644)
	if err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	// Read it back
	data, err := mockFS.ReadFile("/test/file.txt")
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}

	if string(data) != "hello world" {
		t.Errorf("ReadFile = %q, want %q", string(data), "hello world")
	}

	if mode, ok := mockFS.FileMode("/test/file.txt"); !ok || mode != 0644 {
		t.Errorf("FileMode = %v, %v; want 0644, true", mode, ok)
	}
}

func TestMockFS_ReadFile_NotExists(t *testing.T) {
	mockFS := NewMockFS()

	_, err := mockFS.ReadFile("/nonexistent")
	if err != fs.ErrNotExist {
		t.Errorf("ReadFile error = %v, want fs.ErrNotExist", err)
	}
}

func TestMockFS_Stat(t *testing.T) {
	mockFS := NewMockFS()
	mockFS.AddFile("/test/file.txt", []byte("content"), 0644)
	mockFS.AddDir("/test/dir")

	// Stat file
	info, err := mockFS.Stat("/test/file.txt")
	if err != nil {
		t.Fatalf("Stat file error: %v", err)
	}
	if info.IsDir() {
		t.Error("File should not be a directory")
	}
	if info.Name() != "file.txt" {
		t.Errorf("Name = %q, want %q", info.Name(), "file.txt")
	}

	// Stat directory
	info, err = mockFS.Stat("/test/dir")
	if err != nil {
		t.Fatalf("Stat dir error: %v", err)
	}
	if !info.IsDir() {
		t.Error("Dir should be a directory")
	}
}

func TestMockFS_Exists(t *testing.T) {
	mockFS := NewMockFS()
	mockFS.AddFile("/file.txt", []byte("x"), 0644)
	mockFS.AddDir("/dir")

	if !mockFS.Exists("/file.txt") {
		t.Error("File should exist")
	}
	if !mockFS.Exists("/dir") {
		t.Error("Dir should exist")
	}
	if mockFS.Exists("/nonexistent") {
		t.Error("Nonexistent should not exist")
	}
}

func TestMockFS_MkdirAll(t *testing.T) {
	mockFS := NewMockFS()

	if err := mockFS.MkdirAll("/a/b/c", 0755); err != nil {
		t.Fatalf("MkdirAll error: %v", err)
	}

	for _, dir := range []string{"/a", "/a/b", "/a/b/c"} {
		info, err := mockFS.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("%s should be a directory", dir)
		}
	}
}

func TestMockFS_ErrorInjection(t *testing.T) {
	mockFS := NewMockFS()
	mockFS.ReadFileErr = fs.ErrPermission

	_, err := mockFS.ReadFile("/anything")
	if err != fs.ErrPermission {
		t.Errorf("ReadFile error = %v, want ErrPermission", err)
	}
}

func TestMockExecutor_Execute(t *testing.T) {
	exec := NewMockExecutor()
	exec.AddResponse("echo", []byte("hello\n"), nil)

	output, err := exec.Execute(context.Background(), "echo", "hello")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if string(output) != "hello\n" {
		t.Errorf("Output = %q, want %q", string(output), "hello\n")
	}

	// Verify command was recorded
	cmd, ok := exec.LastCommand()
	if !ok {
		t.Fatal("No command recorded")
	}
	if cmd.Name != "echo" {
		t.Errorf("Command name = %q, want %q", cmd.Name, "echo")
	}
}

func TestMockExecutor_DefaultResponse(t *testing.T) {
	exec := NewMockExecutor()
	exec.DefaultResponse = MockResponse{Output: []byte("default"), Err: nil}

	output, err := exec.Execute(context.Background(), "unknown", "command")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if string(output) != "default" {
		t.Errorf("Output = %q, want %q", string(output), "default")
	}
}

func TestMockExecutor_Reset(t *testing.T) {
	exec := NewMockExecutor()
	exec.Execute(context.Background(), "cmd1")
	exec.Execute(context.Background(), "cmd2")

	if len(exec.Commands) != 2 {
		t.Errorf("Commands length = %d, want 2", len(exec.Commands))
	}

	exec.Reset()

	if len(exec.Commands) != 0 {
		t.Errorf("Commands length after reset = %d, want 0", len(exec.Commands))
	}
}

func TestMockExecutor_MostSpecificResponse(t *testing.T) {
	exec := NewMockExecutor()
	exec.AddResponse("cryptsetup", nil, nil)
	exec.AddResponse("cryptsetup luksAddKey", nil, errors.New("generic failure"))
	exec.AddResponse("cryptsetup luksAddKey /dev/sdb1 /mnt/crypto_keyfile.bin", []byte("ok"), nil)

	out, err := exec.ExecuteWithStdin(context.Background(), "secret", "cryptsetup", "luksAddKey", "/dev/sdb1", "/mnt/crypto_keyfile.bin")
	if err != nil || string(out) != "ok" {
		t.Errorf("full-line response = %q, %v; want ok, nil", out, err)
	}

	_, err = exec.ExecuteWithStdin(context.Background(), "secret", "cryptsetup", "luksAddKey", "/dev/sdc1", "/mnt/crypto_keyfile.bin")
	if err == nil {
		t.Error("expected the name+arg0 response for another device")
	}

	cmd, _ := exec.LastCommand()
	if cmd.Stdin != "secret" {
		t.Errorf("Stdin = %q, want %q", cmd.Stdin, "secret")
	}
}

func TestMockExecutor_Stream(t *testing.T) {
	exec := NewMockExecutor()
	wantErr := errors.New("exit status 1")
	exec.AddResponse("pkexec nixos-install", []byte("copying\nbuilding\n"), wantErr)

	var lines []string
	err := exec.Stream(context.Background(), func(line string) {
		lines = append(lines, line)
	}, "pkexec", "nixos-install", "--root", "/mnt")

	if err != wantErr {
		t.Errorf("Stream error = %v, want %v", err, wantErr)
	}
	if strings.Join(lines, "|") != "copying|building" {
		t.Errorf("lines = %q", lines)
	}
	if !exec.Ran("nixos-install") {
		t.Error("Ran(nixos-install) should see through the pkexec prefix")
	}
	if exec.Ran("swapon") {
		t.Error("Ran(swapon) should be false")
	}
}

func TestDryRunExecutor(t *testing.T) {
	dry := NewDryRunExecutor()
	dry.Outputs["nixos-version"] = []byte("23.05.1234 (Stoat)\n")

	out, err := dry.Execute(context.Background(), "nixos-version")
	if err != nil || string(out) != "23.05.1234 (Stoat)\n" {
		t.Errorf("Execute = %q, %v", out, err)
	}
	if _, err := dry.ExecuteWithStdin(context.Background(), "text", "cp", "/dev/stdin", "/mnt/etc/nixos/flake.nix"); err != nil {
		t.Errorf("ExecuteWithStdin error: %v", err)
	}
	if err := dry.Stream(context.Background(), func(string) {
		t.Error("no output expected")
	}, "nixos-install", "--root", "/mnt/my root"); err != nil {
		t.Errorf("Stream error: %v", err)
	}

	plan := dry.Plan()
	want := []string{
		"nixos-version",
		"cp /dev/stdin /mnt/etc/nixos/flake.nix",
		"nixos-install --root '/mnt/my root'",
	}
	if strings.Join(plan, "\n") != strings.Join(want, "\n") {
		t.Errorf("Plan() = %q, want %q", plan, want)
	}
	if dry.Commands[1].Stdin != "text" {
		t.Errorf("Stdin = %q, want %q", dry.Commands[1].Stdin, "text")
	}
}

func TestReadLines(t *testing.T) {
	long := strings.Repeat("x", 100000)
	input := "first\r\n" + long + "\nno newline at end"

	var lines []string
	if err := readLines(strings.NewReader(input), func(line string) {
		lines = append(lines, line)
	}); err != nil {
		t.Fatalf("readLines error: %v", err)
	}

	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0] != "first" || lines[1] != long || lines[2] != "no newline at end" {
		t.Errorf("unexpected lines: %q, len %d, %q", lines[0], len(lines[1]), lines[2])
	}
}
