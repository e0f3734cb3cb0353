package services

import (
	"context"
	"errors"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"trendforge/internal/agent"
	"trendforge/internal/models"
	"trendforge/internal/reconcile"
)

var (
	ErrEmptyMessage = errors.New("message is required")
	// errGenerationFailed 对外展示的通用错误，不泄露上游细节
	errGenerationFailed = errors.New("Failed to run agent")
)

// GenerationService 为每个浏览器会话在后台运行 Agent，并保存流式结果
type GenerationService struct {
	runner   agent.Runner
	timeout  time.Duration
	logger   *zap.Logger
	mu       sync.Mutex
	sessions *lru.Cache[string, *reconcile.Session]
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewGenerationService 最多保留 size 个会话，被淘汰的会话会取消其进行中的生成
func NewGenerationService(runner agent.Runner, size int, timeout time.Duration, logger *zap.Logger) (*GenerationService, error) {
	sessions, err := lru.NewWithEvict(size, func(_ string, sess *reconcile.Session) {
		sess.Clear()
	})
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &GenerationService{
		runner:   runner,
		timeout:  timeout,
		logger:   logger,
		sessions: sessions,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

func (s *GenerationService) session(key string) *reconcile.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions.Get(key); ok {
		return sess
	}
	sess := reconcile.NewSession()
	s.sessions.Add(key, sess)
	return sess
}

// Start 在后台开始一次生成。同一会话上的重叠生成不会被串行化。
func (s *GenerationService) Start(key string, req agent.Request) error {
	if req.Message == "" {
		return ErrEmptyMessage
	}
	req.Mode = models.ParseMode(string(req.Mode))

	sess := s.session(key)
	runCtx, stream := sess.Begin(s.ctx, req.Mode)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(runCtx, s.timeout)
		defer cancel()

		err := s.runner.Run(ctx, req, stream)
		if err != nil && !errors.Is(err, reconcile.ErrCleared) && !errors.Is(err, context.Canceled) {
			s.logger.Error("generation failed", zap.String("mode", string(req.Mode)), zap.Error(err))
			err = errGenerationFailed
		}
		stream.Finish(err)
	}()
	return nil
}

// Snapshot 返回会话当前状态，不存在时为 idle
func (s *GenerationService) Snapshot(key string) reconcile.Snapshot {
	s.mu.Lock()
	sess, ok := s.sessions.Peek(key)
	s.mu.Unlock()
	if !ok {
		return reconcile.NewSession().Snapshot()
	}
	return sess.Snapshot()
}

// Clear 清空会话并取消上游调用
func (s *GenerationService) Clear(key string) {
	s.mu.Lock()
	sess, ok := s.sessions.Peek(key)
	s.mu.Unlock()
	if ok {
		sess.Clear()
	}
}

// Shutdown 取消所有生成并等待后台协程退出
func (s *GenerationService) Shutdown(ctx context.Context) error {
	s.cancel()
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
