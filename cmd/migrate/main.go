package main

import (
	"database/sql"
	"flag"
	"log/slog"
	"os"

	"github.com/pressly/goose/v3"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/sysu-ecnc-dev/crm-planning/backend/db/migrations"
)

func main() {
	var command string

	flag.StringVar(&command, "command", "up", "要执行的 goose 命令 (up, down, status)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		logger.Error("无法设置数据库方言", "error", err)
		os.Exit(1)
	}

	// 迁移内容都注册在 db/migrations 包的 init 中，这里不需要 SQL 文件目录
	switch command {
	case "up":
		err = goose.Up(dbpool, ".")
	case "down":
		err = goose.Down(dbpool, ".")
	case "status":
		err = goose.Status(dbpool, ".")
	default:
		logger.Error("不支持的命令", slog.String("command", command))
		os.Exit(1)
	}

	if err != nil {
		logger.Error("迁移执行失败", slog.String("command", command), "error", err)
		os.Exit(1)
	}

	logger.Info("迁移执行成功", slog.String("command", command))
}
