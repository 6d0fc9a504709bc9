package snowflake

import (
	"fmt"
	"time"

	"github.com/sony/sonyflake/v2"
	"github.com/spf13/viper"
)

var node *sonyflake.Sonyflake

// MustInit 初始化 snowflake
func MustInit(viper *viper.Viper) {
	// 读取配置文件中的起始时间
	st, err := time.Parse(time.DateOnly, viper.GetString("snowflake.start_time"))
	if err != nil {
		panic(fmt.Errorf("parse start time failed, err:%w", err))
	}
	if err := Init(st, viper.GetInt("snowflake.machine_id")); err != nil {
		panic(err)
	}
}

// Init 以指定起始时间和机器号初始化全局节点
func Init(startTime time.Time, machineID int) error {
	n, err := New(startTime, machineID)
	if err != nil {
		return err
	}
	node = n
	return nil
}

// New 创建独立节点
func New(startTime time.Time, machineID int) (*sonyflake.Sonyflake, error) {
	settings := sonyflake.Settings{
		StartTime: startTime,
		MachineID: func() (int, error) {
			return machineID, nil
		},
		CheckMachineID: func(int) bool { return true },
	}
	n, err := sonyflake.New(settings)
	if err != nil {
		return nil, fmt.Errorf("init sonyflake failed, err:%w", err)
	}
	return n, nil
}

func NextID() (int64, error) {
	if node == nil {
		return 0, fmt.Errorf("snowflake not initialized")
	}
	return node.NextID()
}
