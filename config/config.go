package config

import (
	"os"
	"strings"

	"github.com/fengzhu0601/pixelgrid/grid"
	"github.com/spf13/viper"
)

// 环境变量前缀，例如 PIXELGRID_DB_DIALECT
const envPrefix = "PIXELGRID"

type Config struct {
	Grid  GridConfig
	Lease LeaseConfig
	DB    DBConfig
	Log   LogConfig
}

// 画布尺寸，创建后不可修改
type GridConfig struct {
	Width  uint32
	Height uint32
}

// 租约经济参数
type LeaseConfig struct {
	MinHoldMs     uint64 // 最短持有时长(毫秒)
	MinPayment    uint64 // 最低支付
	ExtensionRate uint64 // 超出部分换算除数
}

type DBConfig struct {
	Dialect     string // mysql 或 sqlite
	DSN         string // sqlite 文件路径(默认 pixelgrid.db)，或 mysql dsn(为空时由下面字段拼接)
	DBHost      string
	DBPort      int
	DBUser      string
	DBPass      string
	DBName      string
	DBEncode    string
	DBPool_size int
	DBTimeout   int // 单次存储操作超时(秒)
}

// Params 转换成画布的租约参数
func (l LeaseConfig) Params() grid.Params {
	return grid.Params{
		MinHold:       grid.Duration(l.MinHoldMs),
		MinPayment:    grid.Amount(l.MinPayment),
		ExtensionRate: grid.Amount(l.ExtensionRate),
	}
}

type LogConfig struct {
	Path  string
	Debug bool
}

// 默认 16x16 画布，最短持有5分钟
func setDefaults(v *viper.Viper) {
	v.SetDefault("grid.width", 16)
	v.SetDefault("grid.height", 16)
	v.SetDefault("lease.minholdms", 5*60*1000)
	v.SetDefault("lease.minpayment", 1_000_000)
	v.SetDefault("lease.extensionrate", 1_000)
	v.SetDefault("db.dialect", "sqlite")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.dbhost", "127.0.0.1")
	v.SetDefault("db.dbport", 3306)
	v.SetDefault("db.dbuser", "")
	v.SetDefault("db.dbpass", "")
	v.SetDefault("db.dbname", "pixelgrid")
	v.SetDefault("db.dbencode", "utf8mb4")
	v.SetDefault("db.dbpool_size", 10)
	v.SetDefault("db.dbtimeout", 5)
	v.SetDefault("log.path", "logs/pixelgrid.log")
	v.SetDefault("log.debug", false)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load 在 ./config ../config ../../config 中查找名为 fileName 的配置
func Load(fileName string, cfg interface{}) error {
	v := newViper()
	v.SetConfigName(fileName)
	paths := []string{"./config", "../config", "../../config"}
	for _, path := range paths {
		if pathExists(path) {
			v.AddConfigPath(path)
			break
		}
	}
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(cfg)
}

// LoadFile 读取指定路径的配置，path 为空时只使用默认值和环境变量
func LoadFile(path string, cfg interface{}) error {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return err
		}
	}
	return v.Unmarshal(cfg)
}

// 判断所给路径文件/文件夹是否存在
func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
