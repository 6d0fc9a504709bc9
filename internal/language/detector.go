package language

import (
	"strings"
)

// DetectByExtension 根据文件扩展名推断规范语言名，无法识别时返回空串
func (r *Registry) DetectByExtension(filename string) string {
	ext := strings.ToLower(getFileExtension(filename))
	if ext == "" {
		return ""
	}
	switch ext {
	case ".cc", ".cxx", ".hpp":
		ext = ".cpp"
	case ".h":
		ext = ".c"
	case ".mjs", ".cjs":
		ext = ".js"
	case ".kts":
		ext = ".kt"
	case ".py3":
		ext = ".py"
	}
	if i, ok := r.byExt[ext]; ok {
		return r.specs[i].Name
	}
	return ""
}

// getFileExtension 获取文件扩展名
func getFileExtension(filename string) string {
	for i := len(filename) - 1; i >= 0 && !isPathSeparator(filename[i]); i-- {
		if filename[i] == '.' {
			return filename[i:]
		}
	}
	return ""
}

// isPathSeparator 检查字符是否为路径分隔符
func isPathSeparator(c byte) bool {
	return c == '/' || c == '\\'
}
