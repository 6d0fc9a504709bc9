// Package language 维护可接受的语言名/别名到上游规范名与默认版本的映射。
package language

import (
	"errors"
	"fmt"
	"sort"

	"codepad/internal/constants"
)

// ErrUnknownLanguage 语言名或别名不在注册表中
var ErrUnknownLanguage = errors.New("unknown language")

// UnknownLanguageError 携带无法解析的原始 token
type UnknownLanguageError struct {
	Token string
}

func (e *UnknownLanguageError) Error() string {
	return fmt.Sprintf("unknown language %q", e.Token)
}

// Is 使 errors.Is(err, ErrUnknownLanguage) 成立
func (e *UnknownLanguageError) Is(target error) bool {
	return target == ErrUnknownLanguage
}

// Spec 一门受支持的语言
type Spec struct {
	Name      string   `json:"language"` // 上游规范名
	Version   string   `json:"version"`  // 默认版本
	Aliases   []string `json:"aliases"`
	Extension string   `json:"extension,omitempty"` // 入口文件扩展名
}

// Resolved 解析结果
type Resolved struct {
	Name    string
	Version string
}

// Registry 启动时构建，之后只读，并发访问无需加锁
type Registry struct {
	specs []Spec
	index map[string]int // token -> specs 下标
	byExt map[string]int
}

// NewRegistry 构建注册表并校验 token 的单射性
func NewRegistry(specs []Spec) (*Registry, error) {
	r := &Registry{
		specs: make([]Spec, 0, len(specs)),
		index: make(map[string]int, len(specs)*3),
		byExt: make(map[string]int, len(specs)),
	}
	for _, s := range specs {
		if s.Name == "" {
			return nil, errors.New("language spec with empty name")
		}
		if s.Version == "" {
			return nil, fmt.Errorf("language %q has empty default version", s.Name)
		}
		i := len(r.specs)
		seen := make(map[string]struct{}, len(s.Aliases)+1)
		aliases := make([]string, 0, len(s.Aliases))
		for _, token := range append([]string{s.Name}, s.Aliases...) {
			if token == "" {
				return nil, fmt.Errorf("language %q has an empty alias", s.Name)
			}
			if _, dup := seen[token]; dup {
				// 同一语言内重复出现（如 go 的别名 go）是允许的
				continue
			}
			seen[token] = struct{}{}
			if owner, taken := r.index[token]; taken {
				return nil, fmt.Errorf("token %q claimed by both %q and %q", token, r.specs[owner].Name, s.Name)
			}
			r.index[token] = i
			if token != s.Name {
				aliases = append(aliases, token)
			}
		}
		s.Aliases = aliases
		if s.Extension != "" {
			if _, taken := r.byExt[s.Extension]; !taken {
				r.byExt[s.Extension] = i
			}
		}
		r.specs = append(r.specs, s)
	}
	return r, nil
}

// MustNewRegistry 构建失败直接 panic，用于内置表
func MustNewRegistry(specs []Spec) *Registry {
	r, err := NewRegistry(specs)
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve 精确匹配 token（大小写敏感）；requestedVersion 为空时使用默认版本，
// 非空时原样透传，版本是否可用由上游决定。
func (r *Registry) Resolve(token, requestedVersion string) (Resolved, error) {
	i, ok := r.index[token]
	if !ok {
		return Resolved{}, &UnknownLanguageError{Token: token}
	}
	s := r.specs[i]
	version := requestedVersion
	if version == "" {
		version = s.Version
	}
	return Resolved{Name: s.Name, Version: version}, nil
}

// Lookup 按 token 查找语言定义
func (r *Registry) Lookup(token string) (Spec, bool) {
	i, ok := r.index[token]
	if !ok {
		return Spec{}, false
	}
	return cloneSpec(r.specs[i]), true
}

// List 按规范名排序返回所有语言
func (r *Registry) List() []Spec {
	out := make([]Spec, 0, len(r.specs))
	for _, s := range r.specs {
		out = append(out, cloneSpec(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len 语言数量
func (r *Registry) Len() int {
	return len(r.specs)
}

// EntryFileName 上游入口文件名，未知语言不带扩展名
func (r *Registry) EntryFileName(name string) string {
	if i, ok := r.index[name]; ok && r.specs[i].Extension != "" {
		return constants.EntryFileBaseName + r.specs[i].Extension
	}
	return constants.EntryFileBaseName
}

func cloneSpec(s Spec) Spec {
	s.Aliases = append([]string(nil), s.Aliases...)
	return s
}
