package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/xsxdot/shortlink/pkg/core/config"
	"github.com/xsxdot/shortlink/pkg/core/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCodeChecker 模拟的短码唯一性检查
type fakeCodeChecker struct {
	existing map[string]bool
	calls    int
}

func (f *fakeCodeChecker) ExistsByCode(ctx context.Context, code string) (bool, error) {
	f.calls++
	return f.existing[code], nil
}

// TestBase62Encode_Zero 测试零值编码
func TestBase62Encode_Zero(t *testing.T) {
	assert.Equal(t, "0", Base62Encode(0))
}

// TestBase62_RoundTrip 测试编码解码互为逆运算
func TestBase62_RoundTrip(t *testing.T) {
	values := []int64{0, 1, 9, 10, 35, 36, 61, 62, 3843, 3844, 123456789, 999999999999}
	for _, n := range values {
		decoded, err := Base62Decode(Base62Encode(n))
		require.NoError(t, err)
		assert.Equal(t, n, decoded, "decode(encode(n)) 应等于 n")
	}
}

// TestBase62Encode_Order 测试高位在前的编码顺序
func TestBase62Encode_Order(t *testing.T) {
	assert.Equal(t, "10", Base62Encode(62))
	assert.Equal(t, "z", Base62Encode(35))
	assert.Equal(t, "Z", Base62Encode(61))
}

// TestBase62Decode_Invalid 测试非法字符解码报错
func TestBase62Decode_Invalid(t *testing.T) {
	_, err := Base62Decode("abc-def")
	assert.Error(t, err)

	_, err = Base62Decode("")
	assert.Error(t, err)
}

// TestRandomKey_Format 测试随机短码格式
func TestRandomKey_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9a-zA-Z]{7}$`)
	for i := 0; i < 100; i++ {
		key, err := RandomKey(7)
		require.NoError(t, err)
		assert.True(t, pattern.MatchString(key), "短码应只包含base62字符: %s", key)
	}
}

// TestRandomKey_NoDuplicates 测试连续生成不重复
func TestRandomKey_NoDuplicates(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		key, err := RandomKey(7)
		require.NoError(t, err)
		assert.False(t, seen[key], "1000次生成内不应出现重复短码")
		seen[key] = true
	}
}

// TestGenerateUniqueKey_RetryOnCollision 测试冲突时重试
func TestGenerateUniqueKey_RetryOnCollision(t *testing.T) {
	checker := &fakeCodeChecker{existing: map[string]bool{}}
	gen := NewKeyGenerator(config.KeyConfig{
		Strategy:   config.KeyStrategyRandom,
		Length:     7,
		MaxRetries: 10,
	}, checker, logger.InitLogger("debug"))

	key, err := gen.GenerateUniqueKey(context.Background())
	require.NoError(t, err)
	assert.Len(t, key, 7)
	assert.Equal(t, 1, checker.calls, "无冲突时只检查一次")
}

// TestGenerateUniqueKey_Exhausted 测试超过重试次数后报错
func TestGenerateUniqueKey_Exhausted(t *testing.T) {
	// 所有短码都视为已存在
	allExist := &alwaysExistsChecker{}

	gen := NewKeyGenerator(config.KeyConfig{
		Strategy:   config.KeyStrategyRandom,
		Length:     7,
		MaxRetries: 3,
	}, allExist, logger.InitLogger("debug"))

	_, err := gen.GenerateUniqueKey(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 3, allExist.calls, "应在重试次数用尽后放弃")
}

// alwaysExistsChecker 所有短码都已存在
type alwaysExistsChecker struct {
	calls int
}

func (f *alwaysExistsChecker) ExistsByCode(ctx context.Context, code string) (bool, error) {
	f.calls++
	return true, nil
}

// TestGenerateKey_SequenceStrategy 测试顺序策略直接编码ID
func TestGenerateKey_SequenceStrategy(t *testing.T) {
	gen := NewKeyGenerator(config.KeyConfig{
		Strategy: config.KeyStrategySequence,
	}, &fakeCodeChecker{}, logger.InitLogger("debug"))

	key, err := gen.GenerateKey(context.Background(), 12345)
	require.NoError(t, err)
	assert.Equal(t, Base62Encode(12345), key)
}
