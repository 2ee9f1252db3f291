package service

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/xsxdot/shortlink/pkg/core/config"
	errorc "github.com/xsxdot/shortlink/pkg/core/err"
	"github.com/xsxdot/shortlink/pkg/core/logger"
)

// base62Chars 短码字母表：数字、小写字母、大写字母
const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Base62Encode 将非负整数编码为base62字符串（高位在前），Base62Encode(0) == "0"
func Base62Encode(n int64) string {
	if n <= 0 {
		return "0"
	}

	var sb []byte
	for n > 0 {
		sb = append(sb, base62Chars[n%62])
		n /= 62
	}

	// 反转为高位在前
	for i, j := 0, len(sb)-1; i < j; i, j = i+1, j-1 {
		sb[i], sb[j] = sb[j], sb[i]
	}
	return string(sb)
}

// Base62Decode 将base62字符串解码为整数，是 Base62Encode 的逆运算
func Base62Decode(s string) (int64, error) {
	err := errorc.NewErrorBuilder("Base62Decode")
	if s == "" {
		return 0, err.New("短码不能为空", nil)
	}

	var n int64
	for _, c := range s {
		idx := strings.IndexRune(base62Chars, c)
		if idx < 0 {
			return 0, err.New("短码包含非法字符", nil)
		}
		n = n*62 + int64(idx)
	}
	return n, nil
}

// RandomKey 生成指定长度的均匀随机短码（密码学安全随机源）
func RandomKey(length int) (string, error) {
	if length <= 0 {
		length = 7 // 默认长度
	}

	result := make([]byte, length)
	max := big.NewInt(int64(len(base62Chars)))

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		result[i] = base62Chars[n.Int64()]
	}

	return string(result), nil
}

// codeExistsChecker 短码唯一性检查
type codeExistsChecker interface {
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// KeyGenerator 短码生成服务
// 两种策略二选一：sequence 直接编码链接ID（可枚举、会泄露链接总量），
// random 均匀随机生成（不可预测，但需要冲突重试）
type KeyGenerator struct {
	cfg     config.KeyConfig
	checker codeExistsChecker
	log     *logger.Log
	err     *errorc.ErrorBuilder
}

// NewKeyGenerator 创建短码生成服务实例
func NewKeyGenerator(cfg config.KeyConfig, checker codeExistsChecker, log *logger.Log) *KeyGenerator {
	return &KeyGenerator{
		cfg:     cfg,
		checker: checker,
		log:     log.WithEntryName("KeyGenerator"),
		err:     errorc.NewErrorBuilder("KeyGenerator"),
	}
}

// Strategy 当前生效的生成策略
func (g *KeyGenerator) Strategy() string {
	return g.cfg.Strategy
}

// MaxRetries 冲突重试上限
func (g *KeyGenerator) MaxRetries() int {
	if g.cfg.MaxRetries <= 0 {
		return 10
	}
	return g.cfg.MaxRetries
}

// GenerateKey 为指定链接生成短码
// sequence 策略要求链接已落库（依赖其ID），random 策略与ID无关
func (g *KeyGenerator) GenerateKey(ctx context.Context, linkID int64) (string, error) {
	if g.cfg.Strategy == config.KeyStrategySequence {
		return Base62Encode(linkID), nil
	}
	return g.GenerateUniqueKey(ctx)
}

// GenerateUniqueKey 生成唯一随机短码（带冲突重试）
// 碰撞概率极低但非零，冲突重试是契约的一部分
func (g *KeyGenerator) GenerateUniqueKey(ctx context.Context) (string, error) {
	maxRetries := g.cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 10
	}

	for i := 0; i < maxRetries; i++ {
		code, err := RandomKey(g.cfg.Length)
		if err != nil {
			return "", g.err.New("生成随机短码失败", err)
		}

		exists, err := g.checker.ExistsByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}

	return "", g.err.New("生成唯一短码失败（超过重试次数）", nil)
}
