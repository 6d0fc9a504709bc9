// Package sharecode 把代码与语言编码为可放进链接的分享令牌。
//
// 新令牌为 base64url(JSON)，不带填充。解码同时兼容旧版前端生成的
// base64(encodeURIComponent(JSON)) 令牌。
package sharecode

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidToken 令牌无法解码
var ErrInvalidToken = errors.New("invalid share token")

// Payload 分享内容
type Payload struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// Encode 编码分享令牌
func Encode(code, language string) (string, error) {
	raw, err := json.Marshal(Payload{Code: code, Language: language})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode 解码分享令牌
func Decode(token string) (Payload, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Payload{}, ErrInvalidToken
	}
	if raw, err := base64.RawURLEncoding.DecodeString(token); err == nil {
		if p, ok := unmarshal(raw); ok {
			return p, nil
		}
	}
	return decodeLegacy(token)
}

// decodeLegacy 旧令牌放在查询串里时 '+' 可能已被还原成空格
func decodeLegacy(token string) (Payload, error) {
	token = strings.ReplaceAll(token, " ", "+")
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return Payload{}, ErrInvalidToken
	}
	unescaped, err := url.PathUnescape(string(raw))
	if err != nil {
		return Payload{}, ErrInvalidToken
	}
	p, ok := unmarshal([]byte(unescaped))
	if !ok {
		return Payload{}, ErrInvalidToken
	}
	return p, nil
}

func unmarshal(raw []byte) (Payload, bool) {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Payload{}, false
	}
	return p, true
}

// URL 拼接分享链接：<base>?share=<token>
func URL(base, token string) string {
	if base == "" {
		return "?share=" + token
	}
	u, err := url.Parse(base)
	if err != nil {
		return base + "?share=" + token
	}
	q := u.Query()
	q.Set("share", token)
	u.RawQuery = q.Encode()
	return u.String()
}
