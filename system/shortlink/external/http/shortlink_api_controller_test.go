package http

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

// TestClientMeta_SurvivesRequestBufferReuse 测试提取的客户端信息不随底层请求缓冲复用而被改写
func TestClientMeta_SurvivesRequestBufferReuse(t *testing.T) {
	app := fiber.New()
	fctx := &fasthttp.RequestCtx{}
	fctx.Request.Header.Set(fiber.HeaderUserAgent, "agent-one/1.0 (first)")

	ctx := app.AcquireCtx(fctx)
	_, userAgent := clientMeta(ctx)
	app.ReleaseCtx(ctx)

	// 同一连接上的下一个请求复用同一块头部缓冲
	fctx.Request.Header.Set(fiber.HeaderUserAgent, "agent-two/2.0 (later)")

	assert.Equal(t, "agent-one/1.0 (first)", userAgent)
}
