package errorc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// TestIsDuplicateKey 测试唯一索引冲突识别，覆盖翻译错误与驱动原始报错
func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, IsDuplicateKey(nil))
	assert.False(t, IsDuplicateKey(errors.New("connection reset")))
	assert.False(t, IsDuplicateKey(gorm.ErrRecordNotFound))

	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(errors.New("Error 1062 (23000): Duplicate entry 'abc123' for key 'idx_code'")))
	assert.True(t, IsDuplicateKey(errors.New(`ERROR: duplicate key value violates unique constraint "idx_code" (SQLSTATE 23505)`)))
}

// TestIsDuplicateKey_Wrapped 测试包装后的冲突错误依然能被识别
func TestIsDuplicateKey_Wrapped(t *testing.T) {
	wrapped := New("数据库操作失败", gorm.ErrDuplicatedKey).DB()
	assert.True(t, IsDuplicateKey(wrapped))

	twice := New("创建短链接失败", wrapped)
	assert.True(t, IsDuplicateKey(twice))

	plain := New("数据库操作失败", errors.New("deadlock detected")).DB()
	assert.False(t, IsDuplicateKey(plain))
}
