package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/config"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/domain"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/planning"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/repository"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/seed"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var week string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机员工, 2: 插入指定周的随机班次, 3: 插入演示数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.StringVar(&week, "week", "", "目标周内的任意日期 (YYYY-MM-DD)，默认为本周")
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
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 解析目标周
	anchor := time.Now()
	if week != "" {
		anchor, err = time.Parse(domain.DateLayout, week)
		if err != nil {
			slog.Error("周日期格式错误", slog.String("week", week))
			return
		}
	}
	weekStart := planning.WeekStart(anchor)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				member := utils.GenerateRandomStaffMember(cfg.Seed.StaffEmailDomain)
				if err := repo.CreateStaffMember(member); err != nil {
					slog.Error("无法插入员工", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入员工成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的班次数量")
			return
		}

		// 先获取花名册，随机决定每个班次分配给谁
		staff, err := repo.GetAllStaff()
		if err != nil {
			slog.Error("无法获取花名册", slog.String("error", err.Error()))
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			date := weekStart.AddDate(0, 0, i%7).Format(domain.DateLayout)

			var assignedTo *int64
			color := cfg.Planning.FallbackColor
			if len(staff) > 0 && i%4 != 3 {
				member := staff[i%len(staff)]
				assignedTo = &member.ID
				color = member.Color
			}

			shift := utils.GenerateRandomShift(date, assignedTo, color)
			if err := repo.CreateShift(shift); err != nil {
				slog.Error("无法插入班次", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入班次成功", slog.Int("count", n-cnt))
	case 3:
		seed.SeedDemoData(repo, cfg.Seed.StaffEmailDomain)
	default:
		slog.Error("指定的操作非法")
	}
}
