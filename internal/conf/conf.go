package conf

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，如 CODEPAD_UPSTREAM_BASE_URL 覆盖 upstream.base_url
const EnvPrefix = "CODEPAD"

// Load 加载配置文件，参数是配置文件的路径
func Load(confPath string) *viper.Viper {
	conf := New()
	conf.SetConfigFile(confPath)

	err := conf.ReadInConfig() // 读取配置信息
	if err != nil {
		panic(err) // 读取配置信息失败时，返回并退出程序
	}
	return conf
}

// New 创建带默认值与环境变量覆盖的空配置
func New() *viper.Viper {
	conf := viper.New()
	conf.SetEnvPrefix(EnvPrefix)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	conf.AutomaticEnv()
	SetDefaultValues(conf)
	return conf
}
