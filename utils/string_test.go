package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

// TestTruncate 测试字符串截断
func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "", Truncate("", 3))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0), "上限为0时不截断")

	long := strings.Repeat("x", 2048)
	assert.Len(t, Truncate(long, 1024), 1024)
}

// TestTruncate_KeepsRuneBoundary 测试截断点落在多字节字符中间时回退到字符边界
func TestTruncate_KeepsRuneBoundary(t *testing.T) {
	// 每个汉字占3字节，1024不是3的整数倍，朴素切片会切出半个字符
	long := strings.Repeat("测", 400)

	got := Truncate(long, 1024)

	assert.True(t, utf8.ValidString(got), "截断结果必须是合法UTF-8")
	assert.Equal(t, 1023, len(got))
	assert.Equal(t, strings.Repeat("测", 341), got)
}

// TestParseInt64 测试字符串转int64
func TestParseInt64(t *testing.T) {
	assert.Equal(t, int64(123), ParseInt64("123", 0))
	assert.Equal(t, int64(-1), ParseInt64("", -1))
	assert.Equal(t, int64(-1), ParseInt64("abc", -1))
}
