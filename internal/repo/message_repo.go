// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// ChatMessage model.
package repo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
)

// CreateChatMessage appends a message row with seen=false.
func CreateChatMessage(db *gorm.DB, roomID, role, text string) (*domain.ChatMessage, error) {
	m := &domain.ChatMessage{
		ID:         uuid.NewString(),
		Message:    text,
		Role:       role,
		ChatRoomID: roomID,
		CreatedAt:  time.Now().UTC(),
	}
	return m, db.Create(m).Error
}

// GetChatMessage fetches a message by primary key, or ErrNotFound.
func GetChatMessage(db *gorm.DB, id string) (*domain.ChatMessage, error) {
	var m domain.ChatMessage
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListChatMessages returns messages ordered deterministically
// (CreatedAt ASC, ID ASC).
func ListChatMessages(db *gorm.DB, roomID string, limit int) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	q := db.Where("chat_room_id = ?", roomID).Order("created_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountChatMessages uses a raw COUNT so a missing table surfaces as an error.
func CountChatMessages(db *gorm.DB, roomID string) (int64, error) {
	var total int64
	err := db.Raw("SELECT COUNT(*) FROM chat_messages WHERE chat_room_id = ?", roomID).Scan(&total).Error
	return total, err
}

// ListChatMessagesPage returns a paginated slice ordered (CreatedAt ASC, ID ASC).
func ListChatMessagesPage(db *gorm.DB, roomID string, offset, limit int) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	err := db.
		Where("chat_room_id = ?", roomID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// MarkSeen sets seen=true on a message. The predicate makes repeated calls
// indistinguishable from one call, and seen never reverses.
//
// Returns:
//   - (true, nil) when this call flipped the flag;
//   - (false, nil) when the message was already seen (idempotent repeat);
//   - (false, ErrNotFound) when the message does not exist.
func MarkSeen(db *gorm.DB, id string) (bool, error) {
	res := db.Model(&domain.ChatMessage{}).
		Where("id = ? AND seen = ?", id, false).
		Update("seen", true)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := db.Model(&domain.ChatMessage{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return false, err
		}
		if n == 0 {
			return false, ErrNotFound
		}
		return false, nil
	}
	return true, nil
}

// CountUnseen reports unseen messages of a given role in a room (tenant
// consoles badge unseen customer messages; widgets badge assistant ones).
func CountUnseen(db *gorm.DB, roomID, role string) (int64, error) {
	var n int64
	err := db.Model(&domain.ChatMessage{}).
		Where("chat_room_id = ? AND role = ? AND seen = ?", roomID, role, false).
		Count(&n).Error
	return n, err
}
