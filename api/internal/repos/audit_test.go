package repos

import (
	"context"
	"testing"

	"warehouse-ops-dashboard/api/internal/models"
)

func TestWriteAuditLogWithoutPool(t *testing.T) {
	repo := NewAuditRepo(nil)
	err := repo.WriteAuditLog(context.Background(), []models.AuditLog{{Action: "update"}})
	if err == nil {
		t.Fatalf("expected error when no pool is configured")
	}
}

func TestWriteAuditLogEmptyBatch(t *testing.T) {
	repo := NewAuditRepo(nil)
	if err := repo.WriteAuditLog(context.Background(), nil); err != nil {
		t.Fatalf("empty batch should be a no-op, got %v", err)
	}
}
