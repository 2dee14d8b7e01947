package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/config"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/handler"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("服务启动失败", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("无法加载配置: %w", err)
	}

	dbpool, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer dbpool.Close()

	repo := repository.NewRepository(cfg, dbpool)

	mqConn, mailChannel, err := setupMailQueue(cfg)
	if err != nil {
		return err
	}
	defer mqConn.Close()
	defer mailChannel.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	h, err := handler.NewHandler(cfg, repo, mailChannel, rdb)
	if err != nil {
		return fmt.Errorf("无法创建 handler: %w", err)
	}
	h.RegisterRoutes()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      h.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("正在启动服务器...", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("无法启动服务器: %w", err)
	case <-quit:
	}

	logger.Info("正在关闭服务器...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("关闭服务器失败: %w", err)
	}
	logger.Info("服务器已成功关闭")
	return nil
}

func openDatabase(cfg *config.Config) (*sql.DB, error) {
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("无法创建数据库连接池: %w", err)
	}

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	// sql.Open 不会立即建立连接，显式 ping 一下确认数据库可达
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("无法连接到数据库: %w", err)
	}
	return dbpool, nil
}

// setupMailQueue 连接 RabbitMQ 并声明邮件队列，
// 队列声明是幂等的，API 和 mail worker 两边都声明以免依赖启动顺序
func setupMailQueue(cfg *config.Config) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("无法连接到 rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("无法建立通道: %w", err)
	}

	if _, err := ch.QueueDeclare(
		"email_queue",
		true,  // 持久化
		false, // 不自动删除
		false,
		false,
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("无法声明队列: %w", err)
	}
	return conn, ch, nil
}
