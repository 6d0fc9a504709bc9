package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	v1 "codepad/api/execute/v1"
)

func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestResolveCmd(t *testing.T) {
	out, _, err := runCmd(t, "resolve", "py3")
	if err != nil {
		t.Fatalf("resolve error = %v", err)
	}
	if out != "python 3.10.0\n" {
		t.Errorf("output = %q, want %q", out, "python 3.10.0\n")
	}

	if _, _, err := runCmd(t, "resolve", "brainf**k"); err == nil {
		t.Error("resolve of an unknown language should fail")
	}
}

func TestLanguagesCmd(t *testing.T) {
	out, _, err := runCmd(t, "languages")
	if err != nil {
		t.Fatalf("languages error = %v", err)
	}
	for _, want := range []string{"LANGUAGE", "python", "3.10.0", "py3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestShareRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.rb")
	if err := os.WriteFile(path, []byte("puts 'hi'\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	token, _, err := runCmd(t, "share", "encode", path)
	if err != nil {
		t.Fatalf("encode error = %v", err)
	}
	out, _, err := runCmd(t, "share", "decode", strings.TrimSpace(token))
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if out != "// language: ruby\nputs 'hi'\n" {
		t.Errorf("decode output = %q", out)
	}
}

func TestRunCmd(t *testing.T) {
	var got v1.ExecuteReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(v1.ExecuteResp{Stdout: "out\n", Stderr: "warn\n", ExitCode: 3, MemoryUsed: "0", CPUTime: "0"})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "main.go")
	if err := os.WriteFile(path, []byte("package main"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, errOut, err := runCmd(t, "--server", srv.URL, "run", path)
	var exit *exitError
	if !errors.As(err, &exit) || exit.code != 3 {
		t.Fatalf("run error = %v, want exit code 3", err)
	}
	if out != "out\n" || errOut != "warn\n" {
		t.Errorf("stdout = %q, stderr = %q", out, errOut)
	}
	if got.LanguageToken != "go" || got.SourceCode != "package main" || got.RequestedVersion != nil {
		t.Errorf("request = %+v", got)
	}
}

func TestRunCmd_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(v1.ErrorResp{Error: v1.KindRateLimited, Kind: v1.KindRateLimited, RetryAfter: 42})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "a.py")
	if err := os.WriteFile(path, []byte("print(1)"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := runCmd(t, "--server", srv.URL, "run", path)
	if err == nil || !strings.Contains(err.Error(), "retry after 42s") {
		t.Errorf("run error = %v, want rate limit message", err)
	}
}
