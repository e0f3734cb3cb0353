package reconcile

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendforge/internal/models"
)

const tinyPost = `{"drafts":{"variants":[{"body":"Hello world","hashtags":["#A","#B","#C"]}]},"critique":{"bestIndex":0,"overallScore":8}}`

func TestSessionLifecycle(t *testing.T) {
	s := NewSession()
	assert.Equal(t, StateIdle, s.Snapshot().State)

	_, w := s.Begin(context.Background(), models.ModePost)
	assert.Equal(t, StateLoading, s.Snapshot().State)

	_, err := io.WriteString(w, tinyPost[:40])
	require.NoError(t, err)
	snap := s.Snapshot()
	assert.Equal(t, StateStreaming, snap.State)
	assert.True(t, snap.View.Streaming)

	_, err = io.WriteString(w, tinyPost[40:])
	require.NoError(t, err)
	w.Finish(nil)

	snap = s.Snapshot()
	assert.Equal(t, StateStructured, snap.State)
	assert.True(t, snap.Finished)
	require.NotNil(t, snap.View.Post)
	assert.Equal(t, "Hello world", snap.View.Post.Content)
	assert.Equal(t, 0, s.Active())
}

func TestSessionTextFallbackOnError(t *testing.T) {
	s := NewSession()
	_, w := s.Begin(context.Background(), models.ModePost)
	_, _ = io.WriteString(w, "partial output")
	w.Finish(errors.New("upstream closed"))

	snap := s.Snapshot()
	assert.Equal(t, StateTextFallback, snap.State)
	assert.Equal(t, "upstream closed", snap.Error)
	assert.Equal(t, KindRaw, snap.View.Kind)
}

func TestSessionClearCancelsAndDropsLateChunks(t *testing.T) {
	s := NewSession()
	ctx, w := s.Begin(context.Background(), models.ModeIdeas)
	_, _ = io.WriteString(w, "researching")

	s.Clear()

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	n, err := io.WriteString(w, " more text")
	assert.ErrorIs(t, err, ErrCleared)
	assert.Zero(t, n)
	w.Finish(nil)

	snap := s.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Empty(t, s.Text())
	assert.False(t, snap.Finished)
	assert.Equal(t, 0, s.Active())
}

// 重叠提交不做保护：两次生成的分块交错写入同一缓冲区，先结束的一方会把会话标记为完成。
func TestOverlappingGenerationsInterleave(t *testing.T) {
	s := NewSession()
	_, first := s.Begin(context.Background(), models.ModePost)
	_, _ = io.WriteString(first, "A1 ")

	_, second := s.Begin(context.Background(), models.ModePost)
	_, _ = io.WriteString(first, "A2 ")
	_, _ = io.WriteString(second, "B1 ")
	_, _ = io.WriteString(first, "A3")

	assert.Equal(t, "A2 B1 A3", s.Text())
	assert.Equal(t, 2, s.Active())

	first.Finish(nil)
	snap := s.Snapshot()
	assert.True(t, snap.Finished)
	assert.Equal(t, StateTextFallback, snap.State)

	_, err := io.WriteString(second, " B2")
	require.NoError(t, err)
	assert.Equal(t, "A2 B1 A3 B2", s.Text())
}
