package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/domain"
)

// notifyAssignment 把班次分配/取消的通知投递到邮件队列，
// 邮件的实际发送由 mail worker 完成
func (h *Handler) notifyAssignment(shift *domain.Shift, mailType string) error {
	if shift.AssignedTo == nil {
		return nil
	}

	member, err := h.repository.GetStaffMemberByID(*shift.AssignedTo)
	if err != nil {
		// 软引用：被分配的员工不在花名册中时跳过通知
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}

	var data any
	switch mailType {
	case "shift_assigned":
		data = domain.ShiftAssignedMailData{
			FullName:  member.DisplayName(),
			Title:     shift.Title,
			Date:      shift.Date,
			TimeRange: shift.TimeRange(),
		}
	case "shift_cancelled":
		data = domain.ShiftCancelledMailData{
			FullName:  member.DisplayName(),
			Title:     shift.Title,
			Date:      shift.Date,
			TimeRange: shift.TimeRange(),
		}
	}

	mailMessage := domain.MailMessage{
		Type: mailType,
		To:   member.Email,
		Data: data,
	}

	emailData, err := json.Marshal(mailMessage)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        emailData,
		},
	)
}
