package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"summit-guard/backend/internal/dto"
	"summit-guard/backend/internal/model"
	"summit-guard/backend/internal/repository"
	"summit-guard/backend/pkg/mailer"
)

var ErrNotificationNotFound = errors.New("通知不存在")

// NotificationService 站内通知业务接口
// Send 为尽力而为语义：落库或外发失败只记日志，绝不影响主流程
type NotificationService interface {
	Send(ctx context.Context, notification *model.Notification)
	ListMy(ctx context.Context, recipientID string, page *dto.PaginationRequest) ([]model.Notification, int64, error)
	MarkRead(ctx context.Context, notificationID, recipientID string) error
}

type notificationService struct {
	repo   *repository.Repository
	mail   *mailer.Mailer
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
// mail 为 nil 时仅站内记录，不外发邮件
func NewNotificationService(repo *repository.Repository, mail *mailer.Mailer, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, mail: mail, logger: logger}
}

func (s *notificationService) Send(ctx context.Context, notification *model.Notification) {
	if err := s.repo.Notification.Create(ctx, notification); err != nil {
		s.logger.Warn("通知落库失败",
			zap.String("recipient_id", notification.RecipientID),
			zap.String("type", notification.Type),
			zap.Error(err))
		return
	}

	// 邮件外发（尽力而为，异步，失败只记日志）
	if s.mail != nil {
		go s.sendMail(notification)
	}

	s.logger.Info("通知已发送",
		zap.String("recipient_id", notification.RecipientID),
		zap.String("type", notification.Type))
}

// sendMail 接收人为保安档案时按档案邮箱外发
func (s *notificationService) sendMail(notification *model.Notification) {
	guard, err := s.repo.Guard.GetByID(context.Background(), notification.RecipientID)
	if err != nil || guard.Email == "" {
		return
	}
	if err := s.mail.Send(guard.Email, notification.Title, notification.Content); err != nil {
		s.logger.Warn("通知邮件外发失败",
			zap.String("recipient_id", notification.RecipientID),
			zap.Error(err))
	}
}

func (s *notificationService) ListMy(ctx context.Context, recipientID string, page *dto.PaginationRequest) ([]model.Notification, int64, error) {
	page.Normalize()
	return s.repo.Notification.ListByRecipient(ctx, recipientID, page.Offset(), page.PageSize)
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID, recipientID string) error {
	err := s.repo.Notification.MarkRead(ctx, notificationID, recipientID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotificationNotFound
	}
	return err
}
