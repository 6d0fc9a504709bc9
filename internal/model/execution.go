package model

// ExecutionRequest 一次代码提交，仅在请求生命周期内存在
type ExecutionRequest struct {
	SourceCode       string // 允许为空
	LanguageToken    string // 用户输入的语言名或别名，大小写敏感
	RequestedVersion string // 为空表示使用默认版本
}

// ExecutionResult 归一化后的执行结果，构造后不再修改
type ExecutionResult struct {
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	ExitCode   int    `json:"exitCode"`
	MemoryUsed string `json:"memoryUsed"` // 单位取决于上游
	CPUTime    string `json:"cpuTime"`
}

// Runtime 上游已安装的运行时
type Runtime struct {
	Language string   `json:"language"`
	Version  string   `json:"version"`
	Aliases  []string `json:"aliases"`
	Runtime  string   `json:"runtime,omitempty"`
}
