package reconcile

import (
	"context"
	"errors"
	"strings"
	"sync"

	"trendforge/internal/models"
)

type State string

const (
	StateIdle         State = "idle"
	StateLoading      State = "loading"
	StateStreaming    State = "streaming"
	StateStructured   State = "structured"
	StateTextFallback State = "text_fallback"
)

// ErrCleared 会话已被清空，后续写入被丢弃
var ErrCleared = errors.New("session cleared")

// Session 一个浏览器会话的生成状态：
// idle -> loading -> streaming -> structured | text_fallback，Clear 后回到 idle。
//
// 同一会话上重叠的生成不做串行化：后一次 Begin 会清空缓冲区，
// 但前一次仍在写入，两者的分块按到达顺序交错追加。
type Session struct {
	mu       sync.Mutex
	mode     models.Mode
	state    State
	buf      strings.Builder
	finished bool
	err      error
	epoch    uint64
	nextID   uint64
	cancels  map[uint64]context.CancelFunc
}

func NewSession() *Session {
	return &Session{state: StateIdle, cancels: make(map[uint64]context.CancelFunc)}
}

// Stream 一次生成的写入端
type Stream struct {
	s     *Session
	id    uint64
	epoch uint64
}

// Begin 开始一次生成，返回的 ctx 会在 Clear 时被取消
func (s *Session) Begin(parent context.Context, mode models.Mode) (context.Context, *Stream) {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.cancels[s.nextID] = cancel
	s.mode = mode
	s.state = StateLoading
	s.buf.Reset()
	s.finished = false
	s.err = nil
	return ctx, &Stream{s: s, id: s.nextID, epoch: s.epoch}
}

// Write 追加一个分块；会话被清空后返回 ErrCleared
func (w *Stream) Write(p []byte) (int, error) {
	s := w.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.epoch != s.epoch {
		return 0, ErrCleared
	}
	if len(p) == 0 {
		return 0, nil
	}
	s.buf.Write(p)
	if s.state == StateLoading {
		s.state = StateStreaming
	}
	return len(p), nil
}

// Finish 标记流结束并根据最终文本确定状态
func (w *Stream) Finish(err error) {
	s := w.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.cancels[w.id]; ok {
		cancel()
		delete(s.cancels, w.id)
	}
	if w.epoch != s.epoch {
		return
	}
	s.finished = true
	s.err = err
	switch Reconcile(s.mode, s.buf.String(), true).Kind {
	case KindIdeas, KindPost:
		s.state = StateStructured
	default:
		s.state = StateTextFallback
	}
}

// Clear 取消所有进行中的生成并回到 idle
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	for id, cancel := range s.cancels {
		cancel()
		delete(s.cancels, id)
	}
	s.state = StateIdle
	s.buf.Reset()
	s.finished = false
	s.err = nil
}

// Snapshot 会话某一时刻的只读副本
type Snapshot struct {
	State    State       `json:"state"`
	Mode     models.Mode `json:"mode,omitempty"`
	Finished bool        `json:"finished"`
	Error    string      `json:"error,omitempty"`
	View     View        `json:"view"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	mode, state, finished, err := s.mode, s.state, s.finished, s.err
	text := s.buf.String()
	s.mu.Unlock()

	snap := Snapshot{
		State:    state,
		Mode:     mode,
		Finished: finished,
		View:     Reconcile(mode, text, finished),
	}
	if err != nil {
		snap.Error = err.Error()
	}
	return snap
}

// Text 当前累积文本
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// Active 进行中的生成数量
func (s *Session) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cancels)
}
