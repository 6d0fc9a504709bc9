package language

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestRegistry_ResolveEveryToken(t *testing.T) {
	specs := Defaults()
	r := MustNewRegistry(specs)

	for _, s := range specs {
		for _, token := range append([]string{s.Name}, s.Aliases...) {
			got, err := r.Resolve(token, "")
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", token, err)
			}
			if got.Name != s.Name || got.Version != s.Version {
				t.Errorf("Resolve(%q) = %+v, want {%s %s}", token, got, s.Name, s.Version)
			}
		}
	}
}

func TestRegistry_ResolveRequestedVersion(t *testing.T) {
	r := MustNewRegistry(Defaults())

	got, err := r.Resolve("py3", "3.12.0")
	if err != nil {
		t.Fatalf("Resolve error = %v", err)
	}
	if got.Name != "python" || got.Version != "3.12.0" {
		t.Errorf("Resolve(py3, 3.12.0) = %+v, want {python 3.12.0}", got)
	}

	// 未经校验的版本原样透传
	got, _ = r.Resolve("rs", "not-a-version")
	if got.Version != "not-a-version" {
		t.Errorf("Version = %q, want passthrough", got.Version)
	}
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	r := MustNewRegistry(Defaults())

	tests := []string{"brainf**k", "", "Python", "PY", " py", "pyth", "*"}
	for _, token := range tests {
		t.Run(token, func(t *testing.T) {
			_, err := r.Resolve(token, "")
			if !errors.Is(err, ErrUnknownLanguage) {
				t.Fatalf("Resolve(%q) error = %v, want ErrUnknownLanguage", token, err)
			}
			var ule *UnknownLanguageError
			if !errors.As(err, &ule) || ule.Token != token {
				t.Errorf("error token = %v, want %q", err, token)
			}
		})
	}
}

func TestNewRegistry_RejectsCollisions(t *testing.T) {
	tests := []struct {
		name    string
		specs   []Spec
		wantErr string
	}{
		{
			name: "别名与另一语言规范名冲突",
			specs: []Spec{
				{Name: "python", Version: "3.10.0", Aliases: []string{"py"}},
				{Name: "python2", Version: "2.7.18", Aliases: []string{"python"}},
			},
			wantErr: `token "python"`,
		},
		{
			name: "两个语言共享别名",
			specs: []Spec{
				{Name: "c", Version: "10.2.0", Aliases: []string{"gcc"}},
				{Name: "c++", Version: "10.2.0", Aliases: []string{"gcc"}},
			},
			wantErr: `token "gcc"`,
		},
		{
			name:    "重复规范名",
			specs:   []Spec{{Name: "lua", Version: "5.4.4"}, {Name: "lua", Version: "5.1"}},
			wantErr: `token "lua"`,
		},
		{
			name:    "空版本",
			specs:   []Spec{{Name: "dart"}},
			wantErr: "empty default version",
		},
		{
			name:    "空名称",
			specs:   []Spec{{Version: "1"}},
			wantErr: "empty name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.specs)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("NewRegistry() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewRegistry_SelfAliasTolerated(t *testing.T) {
	r, err := NewRegistry([]Spec{{Name: "go", Version: "1.16.2", Aliases: []string{"go", "golang"}}})
	if err != nil {
		t.Fatalf("NewRegistry error = %v", err)
	}
	s, ok := r.Lookup("golang")
	if !ok {
		t.Fatal("Lookup(golang) = false")
	}
	if len(s.Aliases) != 1 || s.Aliases[0] != "golang" {
		t.Errorf("Aliases = %v, want [golang]", s.Aliases)
	}
}

func TestWithVersions(t *testing.T) {
	specs, err := WithVersions(Defaults(), map[string]string{"python": "3.12.0"})
	if err != nil {
		t.Fatalf("WithVersions error = %v", err)
	}
	r := MustNewRegistry(specs)
	got, _ := r.Resolve("py3", "")
	if got.Version != "3.12.0" {
		t.Errorf("Version = %q, want 3.12.0", got.Version)
	}
	// 原表不应被修改
	if Defaults()[9].Version != "3.10.0" {
		t.Error("Defaults() mutated")
	}

	if _, err := WithVersions(Defaults(), map[string]string{"cobol": "1"}); err == nil {
		t.Error("WithVersions should reject unknown language")
	}
	if _, err := WithVersions(Defaults(), map[string]string{"python": ""}); err == nil {
		t.Error("WithVersions should reject empty version")
	}
}

func TestRegistry_EntryFileName(t *testing.T) {
	r := MustNewRegistry(Defaults())

	tests := map[string]string{
		"python":  "main.py",
		"c++":     "main.cpp",
		"java":    "main.java",
		"unknown": "main",
	}
	for name, want := range tests {
		if got := r.EntryFileName(name); got != want {
			t.Errorf("EntryFileName(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestRegistry_ListSortedAndDetached(t *testing.T) {
	r := MustNewRegistry(Defaults())
	list := r.List()
	if len(list) != r.Len() || len(list) != 19 {
		t.Fatalf("List() len = %d, want 19", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Name >= list[i].Name {
			t.Fatalf("List() not sorted at %d: %q >= %q", i, list[i-1].Name, list[i].Name)
		}
	}
	list[0].Aliases = append(list[0].Aliases, "hijack")
	if _, err := r.Resolve("hijack", ""); err == nil {
		t.Error("mutating List() result must not affect the registry")
	}
}

func TestRegistry_ConcurrentResolve(t *testing.T) {
	r := MustNewRegistry(Defaults())
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if _, err := r.Resolve("ts", ""); err != nil {
					t.Errorf("Resolve error = %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func BenchmarkRegistry_Resolve(b *testing.B) {
	r := MustNewRegistry(Defaults())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.Resolve("python3.10", "")
	}
}
