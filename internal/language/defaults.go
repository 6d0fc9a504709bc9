package language

import "fmt"

// Defaults 内置语言表，版本与别名对齐 Piston 公共实例
func Defaults() []Spec {
	return []Spec{
		{Name: "c", Version: "10.2.0", Aliases: []string{"gcc"}, Extension: ".c"},
		{Name: "c++", Version: "10.2.0", Aliases: []string{"cpp", "g++"}, Extension: ".cpp"},
		{Name: "csharp", Version: "6.12.0", Aliases: []string{"mono", "mono-csharp", "mono-c#", "mono-cs", "c#", "cs"}, Extension: ".cs"},
		{Name: "go", Version: "1.16.2", Aliases: []string{"go", "golang"}, Extension: ".go"},
		{Name: "java", Version: "15.0.2", Extension: ".java"},
		{Name: "javascript", Version: "18.15.0", Aliases: []string{"node-javascript", "node-js", "javascript", "js"}, Extension: ".js"},
		{Name: "kotlin", Version: "1.8.20", Aliases: []string{"kt"}, Extension: ".kt"},
		{Name: "lua", Version: "5.4.4", Extension: ".lua"},
		{Name: "php", Version: "8.2.3", Extension: ".php"},
		{Name: "python", Version: "3.10.0", Aliases: []string{"py", "py3", "python3", "python3.10"}, Extension: ".py"},
		{Name: "python2", Version: "2.7.18", Aliases: []string{"py2", "python2"}, Extension: ".py"},
		{Name: "ruby", Version: "3.0.1", Aliases: []string{"ruby3", "rb"}, Extension: ".rb"},
		{Name: "rust", Version: "1.68.2", Aliases: []string{"rs"}, Extension: ".rs"},
		{Name: "scala", Version: "3.2.2", Aliases: []string{"sc"}, Extension: ".scala"},
		{Name: "typescript", Version: "5.0.3", Aliases: []string{"ts", "node-ts", "tsc", "typescript5", "ts5"}, Extension: ".ts"},
		{Name: "swift", Version: "5.3.3", Aliases: []string{"swift"}, Extension: ".swift"},
		{Name: "rscript", Version: "4.1.1", Aliases: []string{"r"}, Extension: ".r"},
		{Name: "dart", Version: "2.19.6", Extension: ".dart"},
		{Name: "julia", Version: "1.8.5", Aliases: []string{"jl"}, Extension: ".jl"},
	}
}

// WithVersions 用配置覆盖默认版本，覆盖项必须指向已有规范名
func WithVersions(specs []Spec, overrides map[string]string) ([]Spec, error) {
	out := make([]Spec, len(specs))
	copy(out, specs)
	pos := make(map[string]int, len(out))
	for i, s := range out {
		pos[s.Name] = i
	}
	for name, version := range overrides {
		i, ok := pos[name]
		if !ok {
			return nil, fmt.Errorf("version override for unknown language %q", name)
		}
		if version == "" {
			return nil, fmt.Errorf("empty version override for %q", name)
		}
		out[i].Version = version
	}
	return out, nil
}
