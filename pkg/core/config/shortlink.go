package config

import "time"

// ShortLinkConfig 短链接组件配置
type ShortLinkConfig struct {
	Key   KeyConfig `yaml:"key"`
	Geo   GeoConfig `yaml:"geo"`
	Cache struct {
		// ResolveTTL 短码解析缓存存活时间，默认5分钟
		ResolveTTL time.Duration `yaml:"resolve-ttl"`
		// StatsTTL 用户统计缓存存活时间，默认2分钟
		StatsTTL time.Duration `yaml:"stats-ttl"`
	} `yaml:"cache"`
}

// KeyConfig 短码生成策略配置
type KeyConfig struct {
	// Strategy 生成策略：random（默认）或 sequence
	Strategy string `yaml:"strategy"`
	// Length 随机短码长度，默认7
	Length int `yaml:"length"`
	// MaxRetries 随机短码冲突重试次数，默认10
	MaxRetries int `yaml:"max-retries"`
}

// GeoConfig IP归属地查询配置
type GeoConfig struct {
	// Mode 执行方式：async（默认，投递后台任务）或 inline（同步查询，受超时保护）
	Mode string `yaml:"mode"`
	// Endpoint 查询服务地址，默认 http://ip-api.com/json
	Endpoint string `yaml:"endpoint"`
	// Timeout 单次查询超时，默认3秒
	Timeout time.Duration `yaml:"timeout"`
}

const (
	KeyStrategyRandom   = "random"
	KeyStrategySequence = "sequence"

	GeoModeAsync  = "async"
	GeoModeInline = "inline"
)

// Normalize 补全缺省值
func (c *ShortLinkConfig) Normalize() {
	if c.Key.Strategy == "" {
		c.Key.Strategy = KeyStrategyRandom
	}
	if c.Key.Length <= 0 {
		c.Key.Length = 7
	}
	if c.Key.MaxRetries <= 0 {
		c.Key.MaxRetries = 10
	}
	if c.Geo.Mode == "" {
		c.Geo.Mode = GeoModeAsync
	}
	if c.Geo.Endpoint == "" {
		c.Geo.Endpoint = "http://ip-api.com/json"
	}
	if c.Geo.Timeout <= 0 {
		c.Geo.Timeout = 3 * time.Second
	}
	if c.Cache.ResolveTTL <= 0 {
		c.Cache.ResolveTTL = 5 * time.Minute
	}
	if c.Cache.StatsTTL <= 0 {
		c.Cache.StatsTTL = 2 * time.Minute
	}
}
