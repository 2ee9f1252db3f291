package base

import (
	"github.com/xsxdot/shortlink/pkg/core/logger"
	"github.com/xsxdot/shortlink/pkg/core/start"
	"github.com/xsxdot/shortlink/pkg/scheduler"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	Configures *start.Configures
	Logger     *logger.Log
	ENV        string
	DB         *gorm.DB
	RDB        *redis.Client
	Cache      *cache.Cache
	Scheduler  *scheduler.Scheduler
)
