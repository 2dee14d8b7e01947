package repository

import (
	"database/sql"

	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/config"
)

// Repository 是事件存储和员工花名册的持久化层，
// 查询超时统一由配置控制
type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}
