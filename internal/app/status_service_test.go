package app

import (
	"context"
	"errors"
	"testing"

	"github.com/example/kinship/internal/ports/secondary"
)

func TestStatusService_Status(t *testing.T) {
	meta := newMockMetaRepository()
	meta.cacheValid = true
	stats := &mockStatsRepository{counts: secondary.StoreCounts{
		Kits:            4,
		Segments:        10,
		ImputedSegments: 2,
		Matches:         8,
		Triangles:       3,
		Partitions:      12,
		Negatives:       1,
	}}
	svc := NewStatusService(meta, stats)

	status, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}

	if status.SchemaVersion != "1" {
		t.Errorf("schema version = %q, want 1", status.SchemaVersion)
	}
	if !status.CacheValid {
		t.Error("cache reported invalid")
	}
	if status.Kits != 4 || status.Segments != 10 || status.ImputedSegments != 2 ||
		status.Matches != 8 || status.Triangles != 3 || status.Partitions != 12 || status.Negatives != 1 {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestStatusService_StatusPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("meta error", func(t *testing.T) {
		meta := newMockMetaRepository()
		meta.getErr = boom
		svc := NewStatusService(meta, &mockStatsRepository{})
		if _, err := svc.Status(context.Background()); !errors.Is(err, boom) {
			t.Fatalf("expected wrapped meta error, got %v", err)
		}
	})

	t.Run("stats error", func(t *testing.T) {
		svc := NewStatusService(newMockMetaRepository(), &mockStatsRepository{err: boom})
		if _, err := svc.Status(context.Background()); !errors.Is(err, boom) {
			t.Fatalf("expected wrapped stats error, got %v", err)
		}
	})
}
