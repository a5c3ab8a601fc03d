package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vbonduro/recipelens/internal/session"
)

func TestRunJanitorSweepsAndStops(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	base := time.Now()
	env.svc.now = func() time.Time { return base.Add(-2 * time.Hour) }
	res, err := env.svc.UploadImage(ctx, session.DefaultID, "a.jpg", strings.NewReader("x"))
	require.NoError(t, err)
	env.svc.now = func() time.Time { return base }

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		env.svc.RunJanitor(runCtx, time.Hour)
		close(done)
	}()

	require.Eventually(t, func() bool {
		rec, err := env.uploads.GetByID(ctx, res.FileID)
		return err == nil && rec == nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop after cancel")
	}
}

func TestRunJanitorDisabled(t *testing.T) {
	env := newTestEnv(t)

	done := make(chan struct{})
	go func() {
		env.svc.RunJanitor(context.Background(), 0)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor with zero interval should return immediately")
	}
}
