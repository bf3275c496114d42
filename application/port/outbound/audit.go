package outbound

import (
	"context"

	"github.com/clinora/clinora/domain/entity"
)

// AuditRepository persists audit entries. Append and read only: there is no
// update or delete on purpose.
type AuditRepository interface {
	Append(ctx context.Context, entry *entity.AuditEntry) error
	FindRecent(ctx context.Context, offset, limit int) ([]*entity.AuditEntry, int, error)
}

// AuditRecorder is the fire-and-forget boundary used by use cases. Record
// never blocks the caller on the underlying write and never returns an
// error: audit failures are downgraded to warnings by the implementation.
type AuditRecorder interface {
	Record(ctx context.Context, entry *entity.AuditEntry)
}

// ImageStore persists raw image bytes and hands back a retrievable URL.
type ImageStore interface {
	Store(ctx context.Context, name string, data []byte) (url string, err error)
}
