package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"trendforge/internal/agent"
	"trendforge/internal/models"
	"trendforge/internal/reconcile"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type scriptedRunner struct {
	chunks []string
	err    error
	block  bool
}

func (r *scriptedRunner) Run(ctx context.Context, _ agent.Request, w io.Writer) error {
	for _, c := range r.chunks {
		if _, err := io.WriteString(w, c); err != nil {
			return err
		}
	}
	if r.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return r.err
}

func waitFor(t *testing.T, svc *GenerationService, key string, state reconcile.State) reconcile.Snapshot {
	t.Helper()
	var snap reconcile.Snapshot
	require.Eventually(t, func() bool {
		snap = svc.Snapshot(key)
		return snap.State == state
	}, 2*time.Second, 5*time.Millisecond)
	return snap
}

func newGeneration(t *testing.T, runner agent.Runner, size int) *GenerationService {
	t.Helper()
	svc, err := NewGenerationService(runner, size, time.Minute, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, svc.Shutdown(context.Background())) })
	return svc
}

func TestGenerationStructuredResult(t *testing.T) {
	runner := &scriptedRunner{chunks: []string{`Researching... {"ideas": [{"title": "T", `, `"viralPotential": 8}], "trendingSummary": "s"}`}}
	svc := newGeneration(t, runner, 4)

	require.NoError(t, svc.Start("k", agent.Request{Mode: models.ModeIdeas, Message: "AI"}))
	snap := waitFor(t, svc, "k", reconcile.StateStructured)

	assert.True(t, snap.Finished)
	assert.Equal(t, reconcile.KindIdeas, snap.View.Kind)
}

func TestGenerationRejectsEmptyMessage(t *testing.T) {
	svc := newGeneration(t, &scriptedRunner{}, 4)
	assert.ErrorIs(t, svc.Start("k", agent.Request{Mode: models.ModePost}), ErrEmptyMessage)
	assert.Equal(t, reconcile.StateIdle, svc.Snapshot("k").State)
}

func TestGenerationFailureHidesUpstreamDetail(t *testing.T) {
	runner := &scriptedRunner{chunks: []string{"partial"}, err: errors.New("quota exceeded for key abc")}
	svc := newGeneration(t, runner, 4)

	require.NoError(t, svc.Start("k", agent.Request{Mode: models.ModePost, Message: "x"}))
	snap := waitFor(t, svc, "k", reconcile.StateTextFallback)

	assert.Equal(t, "Failed to run agent", snap.Error)
	assert.Equal(t, "partial", snap.View.Raw)
}

func TestGenerationClearCancelsUpstream(t *testing.T) {
	runner := &scriptedRunner{chunks: []string{"working"}, block: true}
	svc := newGeneration(t, runner, 4)

	require.NoError(t, svc.Start("k", agent.Request{Mode: models.ModePost, Message: "x"}))
	waitFor(t, svc, "k", reconcile.StateStreaming)

	svc.Clear("k")
	snap := svc.Snapshot("k")
	assert.Equal(t, reconcile.StateIdle, snap.State)
	assert.Equal(t, reconcile.KindEmpty, snap.View.Kind)
}

func TestGenerationEvictionCancels(t *testing.T) {
	runner := &scriptedRunner{chunks: []string{"working"}, block: true}
	svc := newGeneration(t, runner, 1)

	require.NoError(t, svc.Start("first", agent.Request{Mode: models.ModePost, Message: "x"}))
	waitFor(t, svc, "first", reconcile.StateStreaming)

	// 容量为 1，新会话挤掉旧会话并取消其生成
	require.NoError(t, svc.Start("second", agent.Request{Mode: models.ModePost, Message: "y"}))
	assert.Equal(t, reconcile.StateIdle, svc.Snapshot("first").State)
	waitFor(t, svc, "second", reconcile.StateStreaming)
}
