package repository

import (
	"context"

	"fashionshop/internal/domain/model"
)

// 管理者操作の記録。商品登録と同じトランザクションで書く
type AuditLogRepository interface {
	Create(ctx context.Context, entry model.AuditLog) error
}
