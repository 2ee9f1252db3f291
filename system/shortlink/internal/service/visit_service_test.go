package service

import (
	"context"
	"strings"
	"testing"

	"github.com/xsxdot/shortlink/pkg/core/config"
	errorc "github.com/xsxdot/shortlink/pkg/core/err"
	"github.com/xsxdot/shortlink/pkg/core/logger"
	"github.com/xsxdot/shortlink/system/shortlink/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLinkCounter 模拟的链接查询与计数
type fakeLinkCounter struct {
	links      map[int64]*model.ShortLink
	increments []int64
}

func (f *fakeLinkCounter) FindById(ctx context.Context, id interface{}) (*model.ShortLink, error) {
	link, ok := f.links[id.(int64)]
	if !ok {
		return nil, errorc.NewErrorBuilder("fakeLinkCounter").New("短链接不存在", nil).NotFound()
	}
	return link, nil
}

func (f *fakeLinkCounter) IncrementVisitCount(ctx context.Context, id int64) error {
	f.increments = append(f.increments, id)
	return nil
}

// fakeVisitCreator 模拟的访问记录写入
type fakeVisitCreator struct {
	visits []*model.ShortVisit
}

func (f *fakeVisitCreator) Create(ctx context.Context, visit *model.ShortVisit) error {
	visit.ID = int64(len(f.visits) + 1)
	f.visits = append(f.visits, visit)
	return nil
}

// fakeStatsInvalidator 记录统计缓存失效调用
type fakeStatsInvalidator struct {
	invalidated []int64
}

func (f *fakeStatsInvalidator) Invalidate(ctx context.Context, userID int64) {
	f.invalidated = append(f.invalidated, userID)
}

func newTestVisitService(links *fakeLinkCounter, visits *fakeVisitCreator, stats *fakeStatsInvalidator) *VisitService {
	log := logger.InitLogger("debug")
	geo := NewGeoService(&stubGeoProvider{}, &recordingGeoUpdater{}, nil, config.GeoConfig{
		Mode: config.GeoModeInline,
	}, log)
	return NewVisitService(links, visits, geo, stats, log)
}

func ownedLink(id, userID int64) *model.ShortLink {
	link := &model.ShortLink{UserID: &userID, Enabled: true}
	link.ID = id
	return link
}

// TestRecord_MissingLinkIsNoop 测试链接不存在时静默跳过
func TestRecord_MissingLinkIsNoop(t *testing.T) {
	links := &fakeLinkCounter{links: map[int64]*model.ShortLink{}}
	visits := &fakeVisitCreator{}
	stats := &fakeStatsInvalidator{}
	svc := newTestVisitService(links, visits, stats)

	visit, err := svc.Record(context.Background(), 99, "8.8.8.8", "Mozilla/5.0")

	assert.NoError(t, err, "链接不存在不是错误")
	assert.Nil(t, visit)
	assert.Empty(t, visits.visits)
	assert.Empty(t, links.increments)
}

// TestRecord_PersistsAndIncrements 测试落库并原子递增计数
func TestRecord_PersistsAndIncrements(t *testing.T) {
	links := &fakeLinkCounter{links: map[int64]*model.ShortLink{1: ownedLink(1, 10)}}
	visits := &fakeVisitCreator{}
	stats := &fakeStatsInvalidator{}
	svc := newTestVisitService(links, visits, stats)

	visit, err := svc.Record(context.Background(), 1, "8.8.8.8", "Mozilla/5.0")

	require.NoError(t, err)
	require.NotNil(t, visit)
	assert.Equal(t, int64(1), visit.LinkID)
	assert.Equal(t, "8.8.8.8", visit.IP)
	assert.False(t, visit.VisitedAt.IsZero())
	assert.Equal(t, []int64{1}, links.increments)
}

// TestRecord_TruncatesUserAgent 测试超长User-Agent截断
func TestRecord_TruncatesUserAgent(t *testing.T) {
	links := &fakeLinkCounter{links: map[int64]*model.ShortLink{1: ownedLink(1, 10)}}
	visits := &fakeVisitCreator{}
	svc := newTestVisitService(links, visits, &fakeStatsInvalidator{})

	longUA := strings.Repeat("x", 5000)
	visit, err := svc.Record(context.Background(), 1, "", longUA)

	require.NoError(t, err)
	assert.Len(t, visit.UserAgent, model.UserAgentMaxLength)
}

// TestRecord_NormalizesBlankIP 测试空白IP归一化
func TestRecord_NormalizesBlankIP(t *testing.T) {
	links := &fakeLinkCounter{links: map[int64]*model.ShortLink{1: ownedLink(1, 10)}}
	visits := &fakeVisitCreator{}
	svc := newTestVisitService(links, visits, &fakeStatsInvalidator{})

	visit, err := svc.Record(context.Background(), 1, "   ", "Mozilla/5.0")

	require.NoError(t, err)
	assert.Equal(t, "", visit.IP)
}

// TestRecord_InvalidatesOwnerStats 测试有属主时失效其统计缓存
func TestRecord_InvalidatesOwnerStats(t *testing.T) {
	links := &fakeLinkCounter{links: map[int64]*model.ShortLink{1: ownedLink(1, 10)}}
	stats := &fakeStatsInvalidator{}
	svc := newTestVisitService(links, &fakeVisitCreator{}, stats)

	_, err := svc.Record(context.Background(), 1, "8.8.8.8", "Mozilla/5.0")

	require.NoError(t, err)
	assert.Equal(t, []int64{10}, stats.invalidated)
}

// TestRecord_SkipsInvalidationWithoutOwner 测试无属主时跳过统计失效
func TestRecord_SkipsInvalidationWithoutOwner(t *testing.T) {
	link := &model.ShortLink{Enabled: true}
	link.ID = 1
	links := &fakeLinkCounter{links: map[int64]*model.ShortLink{1: link}}
	stats := &fakeStatsInvalidator{}
	svc := newTestVisitService(links, &fakeVisitCreator{}, stats)

	_, err := svc.Record(context.Background(), 1, "8.8.8.8", "Mozilla/5.0")

	require.NoError(t, err)
	assert.Empty(t, stats.invalidated)
}
