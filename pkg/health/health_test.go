package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestCheck_AllHealthy(t *testing.T) {
	checks := map[string]Checker{
		"database": pingFunc(func(context.Context) error { return nil }),
	}
	rep := Check(context.Background(), time.Second, checks, "database")
	if rep.Status != "ok" {
		t.Fatalf("expected ok, got %s", rep.Status)
	}
	if len(rep.Results) != 1 || !rep.Results[0].OK {
		t.Fatalf("unexpected results: %+v", rep.Results)
	}
}

func TestCheck_DegradedOnFailure(t *testing.T) {
	boom := errors.New("disk gone")
	checks := map[string]Checker{
		"database": pingFunc(func(context.Context) error { return boom }),
		"other":    pingFunc(func(context.Context) error { return nil }),
	}
	rep := Check(context.Background(), time.Second, checks, "database", "other", "missing")
	if rep.Status != "degraded" {
		t.Fatalf("expected degraded, got %s", rep.Status)
	}
	if len(rep.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(rep.Results))
	}
	if !errors.Is(rep.Results[0].Err, boom) || !rep.Results[1].OK {
		t.Errorf("unexpected results: %+v", rep.Results)
	}
}

func TestCheck_AppliesTimeout(t *testing.T) {
	checks := map[string]Checker{
		"slow": pingFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}),
	}
	rep := Check(context.Background(), 20*time.Millisecond, checks, "slow")
	if rep.Status != "degraded" || !errors.Is(rep.Results[0].Err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %+v", rep)
	}
}
