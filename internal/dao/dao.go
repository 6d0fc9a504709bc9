package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"codepad/internal/constants"
	"codepad/internal/model"
)

var (
	DB          *gorm.DB      // 全局数据库连接
	RedisClient *redis.Client // 全局 Redis 连接
)

// MustInitDB 按 database.driver 初始化数据库连接并迁移表结构
func MustInitDB(cfg *viper.Viper) {
	driver := cfg.GetString("database.driver")
	dsn := cfg.GetString("database.dsn")
	if dsn == "" {
		dsn = buildDSN(cfg, driver)
	}
	db, err := Open(driver, dsn)
	if err != nil {
		panic(fmt.Errorf("connect db fail: %w", err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		panic(fmt.Errorf("connect db fail: %w", err))
	}
	// 设置连接池参数
	if n := cfg.GetInt("database.max_idle_conns"); n > 0 {
		sqlDB.SetMaxIdleConns(n)
	}
	if n := cfg.GetInt("database.max_open_conns"); n > 0 {
		sqlDB.SetMaxOpenConns(n)
	}
	sqlDB.SetConnMaxLifetime(cfg.GetDuration("database.max_lifetime"))
	DB = db
}

// Open 打开连接并自动迁移
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case constants.DBDriverMySQL:
		dialector = mysql.Open(dsn)
	case constants.DBDriverPostgres:
		dialector = postgres.Open(dsn)
	case constants.DBDriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// AutoMigrate 迁移业务表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Snippet{}, &model.Feedback{}, &model.Visitor{})
}

func buildDSN(cfg *viper.Viper, driver string) string {
	switch driver {
	case constants.DBDriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.GetString("database.user"),
			cfg.GetString("database.password"),
			cfg.GetString("database.host"),
			cfg.GetInt("database.port"),
			cfg.GetString("database.dbname"),
		)
	case constants.DBDriverPostgres:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
			cfg.GetString("database.host"),
			cfg.GetString("database.user"),
			cfg.GetString("database.password"),
			cfg.GetString("database.dbname"),
			cfg.GetInt("database.port"),
			cfg.GetString("database.sslmode"),
		)
	default:
		return cfg.GetString("database.path")
	}
}

// MustInitRedis 初始化 Redis 连接
func MustInitRedis(conf *viper.Viper) {
	addr := fmt.Sprintf("%s:%d", conf.GetString("redis.host"), conf.GetInt("redis.port"))
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: conf.GetString("redis.password"),
		DB:       conf.GetInt("redis.db"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := rdb.Ping(ctx).Result()
	if err != nil {
		panic(fmt.Errorf("init redis failed, err:%w", err))
	}
	RedisClient = rdb
}

// Ping 检查已初始化的存储连接，用于就绪检查
func Ping(ctx context.Context) error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if RedisClient != nil {
		if err := RedisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}
