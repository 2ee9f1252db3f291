package service

import (
	"context"
	"testing"

	"github.com/xsxdot/shortlink/pkg/core/config"
	errorc "github.com/xsxdot/shortlink/pkg/core/err"
	"github.com/xsxdot/shortlink/pkg/core/logger"
	"github.com/xsxdot/shortlink/pkg/core/mvc"
	"github.com/xsxdot/shortlink/system/shortlink/internal/model"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// duplicateOnceBase 前N次落库报唯一索引冲突，之后成功
type duplicateOnceBase struct {
	mvc.IBaseService[model.ShortLink]
	conflicts int
	created   []string
}

func (f *duplicateOnceBase) Create(ctx context.Context, entity *model.ShortLink) error {
	if f.conflicts > 0 {
		f.conflicts--
		return errorc.New("数据库操作失败", gorm.ErrDuplicatedKey).DB()
	}
	entity.ID = int64(len(f.created) + 1)
	f.created = append(f.created, *entity.Code)
	return nil
}

func newRandomLinkService(base mvc.IBaseService[model.ShortLink], maxRetries int) *LinkService {
	log := logger.InitLogger("debug")
	return &LinkService{
		IBaseService: base,
		keys: NewKeyGenerator(config.KeyConfig{
			Strategy:   config.KeyStrategyRandom,
			Length:     7,
			MaxRetries: maxRetries,
		}, &fakeCodeChecker{}, log),
		log: log,
		err: errorc.NewErrorBuilder("LinkService"),
	}
}

// TestCreateWithKey_RetriesOnInsertConflict 测试预检查通过但落库撞唯一索引时换码重试
func TestCreateWithKey_RetriesOnInsertConflict(t *testing.T) {
	base := &duplicateOnceBase{conflicts: 2}
	svc := newRandomLinkService(base, 5)

	link := &model.ShortLink{TargetURL: "https://example.com"}
	err := svc.CreateWithKey(context.Background(), link, "")

	assert.NoError(t, err)
	assert.Len(t, base.created, 1)
	assert.NotNil(t, link.Code)
	assert.Equal(t, base.created[0], *link.Code)
}

// TestCreateWithKey_ConflictRetriesExhausted 测试冲突重试耗尽后报错
func TestCreateWithKey_ConflictRetriesExhausted(t *testing.T) {
	base := &duplicateOnceBase{conflicts: 100}
	svc := newRandomLinkService(base, 3)

	link := &model.ShortLink{TargetURL: "https://example.com"}
	err := svc.CreateWithKey(context.Background(), link, "")

	assert.Error(t, err)
	assert.Empty(t, base.created)
}

// TestCreateWithKey_NonConflictErrorNotRetried 测试非冲突的落库错误直接上抛
func TestCreateWithKey_NonConflictErrorNotRetried(t *testing.T) {
	base := &failingBase{}
	svc := newRandomLinkService(base, 5)

	link := &model.ShortLink{TargetURL: "https://example.com"}
	err := svc.CreateWithKey(context.Background(), link, "")

	assert.Error(t, err)
	assert.Equal(t, 1, base.calls, "普通数据库错误不应重试")
}

// failingBase 落库始终报非冲突错误
type failingBase struct {
	mvc.IBaseService[model.ShortLink]
	calls int
}

func (f *failingBase) Create(ctx context.Context, entity *model.ShortLink) error {
	f.calls++
	return errorc.New("数据库操作失败", gorm.ErrInvalidTransaction).DB()
}
