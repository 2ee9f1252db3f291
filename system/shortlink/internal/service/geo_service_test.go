package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xsxdot/shortlink/pkg/core/config"
	"github.com/xsxdot/shortlink/pkg/core/logger"

	"github.com/stretchr/testify/assert"
)

// stubGeoProvider 模拟的IP归属地查询
type stubGeoProvider struct {
	loc   *GeoLocation
	err   error
	calls int
}

func (p *stubGeoProvider) Lookup(ctx context.Context, ip string) (*GeoLocation, error) {
	p.calls++
	return p.loc, p.err
}

// recordingGeoUpdater 记录写回参数
type recordingGeoUpdater struct {
	visitID     int64
	geolocation string
	country     string
	calls       int
	err         error
}

func (u *recordingGeoUpdater) UpdateGeo(ctx context.Context, visitID int64, geolocation, country string) error {
	u.calls++
	u.visitID = visitID
	u.geolocation = geolocation
	u.country = country
	return u.err
}

func newInlineGeoService(provider GeoIPProvider, updater visitGeoUpdater) *GeoService {
	return NewGeoService(provider, updater, nil, config.GeoConfig{
		Mode: config.GeoModeInline,
	}, logger.InitLogger("debug"))
}

// TestEnrich_SkipsLoopbackAndBlank 测试回环与空IP直接跳过，不发起查询
func TestEnrich_SkipsLoopbackAndBlank(t *testing.T) {
	provider := &stubGeoProvider{}
	updater := &recordingGeoUpdater{}
	svc := newInlineGeoService(provider, updater)

	for _, ip := range []string{"", "   ", "127.0.0.1", "::1", "not-an-ip", "192.168.1.1"} {
		svc.Enrich(context.Background(), 1, ip)
	}

	assert.Equal(t, 0, provider.calls, "不可定位地址不应发起查询")
	assert.Equal(t, 0, updater.calls)
}

// TestEnrich_WritesBackCombinedLocation 测试成功时写回组合地理位置
func TestEnrich_WritesBackCombinedLocation(t *testing.T) {
	provider := &stubGeoProvider{loc: &GeoLocation{City: "Mountain View", Country: "United States"}}
	updater := &recordingGeoUpdater{}
	svc := newInlineGeoService(provider, updater)

	svc.Enrich(context.Background(), 42, "8.8.8.8")

	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, 1, updater.calls)
	assert.Equal(t, int64(42), updater.visitID)
	assert.Equal(t, "Mountain View, United States", updater.geolocation)
	assert.Equal(t, "United States", updater.country)
}

// TestEnrich_ProviderFailureIsSwallowed 测试查询失败只留空，不上抛
func TestEnrich_ProviderFailureIsSwallowed(t *testing.T) {
	provider := &stubGeoProvider{err: errors.New("lookup timeout")}
	updater := &recordingGeoUpdater{}
	svc := newInlineGeoService(provider, updater)

	svc.Enrich(context.Background(), 7, "8.8.8.8")

	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, 0, updater.calls, "查询失败不应写回")
}

// TestEnrich_EmptyResultSkipsWriteback 测试空结果不写回
func TestEnrich_EmptyResultSkipsWriteback(t *testing.T) {
	provider := &stubGeoProvider{loc: &GeoLocation{}}
	updater := &recordingGeoUpdater{}
	svc := newInlineGeoService(provider, updater)

	svc.Enrich(context.Background(), 7, "8.8.8.8")

	assert.Equal(t, 0, updater.calls)
}

// TestIPAPIProvider_RequestFailureReturnsError 测试归属地服务不可达时返回错误而不崩溃
func TestIPAPIProvider_RequestFailureReturnsError(t *testing.T) {
	provider := NewIPAPIProvider("http://127.0.0.1:1/json", 200*time.Millisecond)

	var loc *GeoLocation
	var err error
	assert.NotPanics(t, func() {
		loc, err = provider.Lookup(context.Background(), "8.8.8.8")
	})

	assert.Error(t, err)
	assert.Nil(t, loc)
}

// TestEnrich_UnreachableProviderIsSwallowed 测试补全路径对不可达的归属地服务完全免疫
func TestEnrich_UnreachableProviderIsSwallowed(t *testing.T) {
	provider := NewIPAPIProvider("http://127.0.0.1:1/json", 200*time.Millisecond)
	updater := &recordingGeoUpdater{}
	svc := newInlineGeoService(provider, updater)

	assert.NotPanics(t, func() {
		svc.Enrich(context.Background(), 9, "8.8.8.8")
	})
	assert.Equal(t, 0, updater.calls)
}

// TestFormatGeolocation 测试地理位置拼接，缺失部分省略
func TestFormatGeolocation(t *testing.T) {
	assert.Equal(t, "Mountain View, United States", FormatGeolocation("Mountain View", "United States"))
	assert.Equal(t, "United States", FormatGeolocation("", "United States"))
	assert.Equal(t, "Mountain View", FormatGeolocation("Mountain View", ""))
	assert.Equal(t, "", FormatGeolocation("", ""))
}
