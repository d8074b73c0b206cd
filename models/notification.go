package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/store_backend/config"
	"bitbucket.org/mmdatafocus/store_backend/utils"
	"github.com/google/uuid"
)

type Notification struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Date      time.Time `gorm:"not null;index" json:"date"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	Message   string    `gorm:"size:255" json:"message"`
	IsRead    *bool     `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func CreateNotification(ctx context.Context, title string, message string) (*Notification, error) {
	db := config.GetDB()

	notification := Notification{
		ID:      uuid.New().String(),
		Date:    time.Now(),
		Title:   title,
		Message: message,
		IsRead:  utils.NewFalse(),
	}
	if err := db.WithContext(ctx).Create(&notification).Error; err != nil {
		return nil, err
	}
	if err := utils.InvalidateList[Notification](); err != nil {
		config.LogError(config.GetLogger(), "notification.go", "CreateNotification", "InvalidateList", notification.ID, err)
	}
	return &notification, nil
}

func GetNotifications(ctx context.Context) ([]*Notification, error) {
	db := config.GetDB()
	var notifications []*Notification
	err := db.WithContext(ctx).Order("date DESC").Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func MarkNotificationRead(ctx context.Context, id string) (*Notification, error) {
	db := config.GetDB()

	if err := utils.ValidateResourceId[Notification](ctx, id); err != nil {
		return nil, errors.New("notification not found")
	}
	if err := db.WithContext(ctx).Model(&Notification{}).Where("id = ?", id).Update("is_read", utils.NewTrue()).Error; err != nil {
		return nil, err
	}
	if err := utils.InvalidateList[Notification](); err != nil {
		config.LogError(config.GetLogger(), "notification.go", "MarkNotificationRead", "InvalidateList", id, err)
	}
	return utils.FetchModel[Notification](ctx, id)
}

func DeleteNotification(ctx context.Context, id string) error {
	db := config.GetDB()

	if err := utils.ValidateResourceId[Notification](ctx, id); err != nil {
		return errors.New("notification not found")
	}
	if err := db.WithContext(ctx).Where("id = ?", id).Delete(&Notification{}).Error; err != nil {
		return err
	}
	if err := utils.InvalidateList[Notification](); err != nil {
		config.LogError(config.GetLogger(), "notification.go", "DeleteNotification", "InvalidateList", id, err)
	}
	return nil
}
