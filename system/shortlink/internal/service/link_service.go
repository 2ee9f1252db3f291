package service

import (
	"context"

	"github.com/xsxdot/shortlink/pkg/core/config"
	errorc "github.com/xsxdot/shortlink/pkg/core/err"
	"github.com/xsxdot/shortlink/pkg/core/logger"
	"github.com/xsxdot/shortlink/pkg/core/mvc"
	"github.com/xsxdot/shortlink/system/shortlink/internal/dao"
	"github.com/xsxdot/shortlink/system/shortlink/internal/model"
)

// LinkService 短链接业务逻辑层
type LinkService struct {
	mvc.IBaseService[model.ShortLink]
	Dao  *dao.LinkDao
	keys *KeyGenerator
	log  *logger.Log
	err  *errorc.ErrorBuilder
}

// NewLinkService 创建短链接服务实例
func NewLinkService(daoInstance *dao.LinkDao, keys *KeyGenerator, log *logger.Log) *LinkService {
	return &LinkService{
		IBaseService: mvc.NewBaseService[model.ShortLink](daoInstance),
		Dao:          daoInstance,
		keys:         keys,
		log:          log.WithEntryName("LinkService"),
		err:          errorc.NewErrorBuilder("LinkService"),
	}
}

// CreateWithKey 创建短链接并分配短码
// customKey 非空时使用自定义短码（冲突即报错）；否则按配置的策略生成：
// random 先生成唯一短码再落库，sequence 先落库拿到ID再回填 base62(ID)
func (s *LinkService) CreateWithKey(ctx context.Context, link *model.ShortLink, customKey string) error {
	if customKey != "" {
		exists, err := s.Dao.ExistsByCode(ctx, customKey)
		if err != nil {
			return err
		}
		if exists {
			return s.err.New("短码已存在", nil).ValidWithCtx()
		}
		link.Code = &customKey
		if err := s.Create(ctx, link); err != nil {
			// 预检查后仍可能被并发插入抢先，唯一索引冲突同样按短码已存在报出
			if errorc.IsDuplicateKey(err) {
				return s.err.New("短码已存在", err).ValidWithCtx()
			}
			return err
		}
		return nil
	}

	if s.keys.Strategy() == config.KeyStrategySequence {
		// 先落库拿到自增ID，再回填短码
		if err := s.Create(ctx, link); err != nil {
			return err
		}
		code := Base62Encode(link.ID)
		if err := s.Dao.AssignCode(ctx, link.ID, code); err != nil {
			return err
		}
		link.Code = &code
		return nil
	}

	// 随机策略：ExistsByCode 预检查到落库之间存在并发窗口，
	// 唯一索引冲突时换一个短码重试而不是直接报错
	for attempt := 0; attempt < s.keys.MaxRetries(); attempt++ {
		code, err := s.keys.GenerateUniqueKey(ctx)
		if err != nil {
			return err
		}
		link.Code = &code

		err = s.Create(ctx, link)
		if err == nil {
			return nil
		}
		if !errorc.IsDuplicateKey(err) {
			return err
		}
		s.log.WithField("code", code).Warn("随机短码落库冲突，重新生成")
	}

	return s.err.New("随机短码冲突重试次数耗尽", nil).DB()
}
