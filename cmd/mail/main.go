package main

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/config"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

// mailKind 把队列消息类型映射到邮件模板和主题
type mailKind struct {
	subject  string
	template *template.Template
}

type worker struct {
	logger *slog.Logger
	client *mail.Client
	sender string
	kinds  map[string]mailKind
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := run(logger); err != nil {
		logger.Error("mail worker 启动失败", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("无法加载配置: %w", err)
	}

	// 模板在启动时解析好，坏模板直接拒绝启动而不是逐条 Nack
	kinds, err := loadMailKinds()
	if err != nil {
		return err
	}

	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		return fmt.Errorf("无法创建邮件客户端: %w", err)
	}
	defer client.Close()

	dialCtx, cancelDial := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancelDial()
	if err := client.DialWithContext(dialCtx); err != nil {
		return fmt.Errorf("无法连接到邮件服务器: %w", err)
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		return fmt.Errorf("无法连接到 rabbitmq: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("无法建立通道: %w", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		"email_queue",
		true,  // 持久化
		false, // 不自动删除，避免没有消费者时队列消失
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("无法声明队列: %w", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",    // 消费者标识由 rabbitmq 分配
		false, // 手动确认
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("无法消费消息: %w", err)
	}

	w := &worker{
		logger: logger,
		client: client,
		sender: cfg.Email.SMTP.Username,
		kinds:  kinds,
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				w.handle(msg)
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("等待邮件消息...（按 CTRL+C 退出）")
	<-sigChan

	logger.Info("正在关闭 mail worker...")
	cancel()
	wg.Wait()
	logger.Info("mail worker 已成功关闭")
	return nil
}

func loadMailKinds() (map[string]mailKind, error) {
	kinds := map[string]struct {
		subject string
		file    string
	}{
		"shift_assigned":  {subject: "CRM 排班系统 - 新的班次分配", file: "./templates/shift_assigned_email.html"},
		"shift_cancelled": {subject: "CRM 排班系统 - 班次取消", file: "./templates/shift_cancelled_email.html"},
	}

	loaded := make(map[string]mailKind, len(kinds))
	for name, k := range kinds {
		tmpl, err := template.ParseFiles(k.file)
		if err != nil {
			return nil, fmt.Errorf("无法解析邮件模板 %s: %w", k.file, err)
		}
		loaded[name] = mailKind{subject: k.subject, template: tmpl}
	}
	return loaded, nil
}

func (w *worker) handle(msg amqp.Delivery) {
	w.logger.Info("收到消息", slog.String("message", string(msg.Body)))

	var mailMessage domain.MailMessage
	if err := json.Unmarshal(msg.Body, &mailMessage); err != nil {
		w.logger.Error("邮件信息反序列化失败", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	kind, ok := w.kinds[mailMessage.Type]
	if !ok {
		w.logger.Error("不支持的邮件类型", slog.String("type", mailMessage.Type))
		_ = msg.Nack(false, false)
		return
	}

	m := mail.NewMsg()
	if err := m.From(w.sender); err != nil {
		w.logger.Error("无法设置邮件发件人", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}
	if err := m.To(mailMessage.To); err != nil {
		w.logger.Error("无法设置邮件收件人", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}
	if err := m.SetBodyHTMLTemplate(kind.template, mailMessage.Data); err != nil {
		w.logger.Error("无法设置邮件正文", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}
	m.Subject(kind.subject)

	// 发送失败时重新入队，等待下一次投递
	if err := w.client.DialAndSend(m); err != nil {
		w.logger.Error("邮件发送失败", slog.String("error", err.Error()))
		_ = msg.Nack(false, true)
		return
	}

	_ = msg.Ack(false)
}
