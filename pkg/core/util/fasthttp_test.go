package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestHttpGet_ConnectionRefused 请求失败时不持有响应对象，Close 可安全调用
func TestHttpGet_ConnectionRefused(t *testing.T) {
	h := NewHttpWithTimeout("http://127.0.0.1:1/json", nil, 200*time.Millisecond)
	defer h.Close()

	err := h.Get()

	assert.Error(t, err)
	assert.Nil(t, h.Response)
}

// TestHttpClose_Idempotent Close 对空响应和重复调用都是空操作
func TestHttpClose_Idempotent(t *testing.T) {
	h := NewHttp("http://example.com", nil)

	assert.NotPanics(t, func() {
		h.Close()
		h.Close()
	})
}
