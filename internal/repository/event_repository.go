package repository

import (
	"wolfs_web/internal/models"
	"wolfs_web/internal/storage"
)

type EventRepository interface {
	Create(event *models.GameEvent) error
	FindBySessionID(sessionID uint) ([]models.GameEvent, error)
}

type eventRepository struct {
	db *storage.PostgresDB
}

func NewEventRepository(db *storage.PostgresDB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(event *models.GameEvent) error {
	return r.db.Create(event).Error
}

func (r *eventRepository) FindBySessionID(sessionID uint) ([]models.GameEvent, error) {
	var events []models.GameEvent
	err := r.db.Where("session_id = ?", sessionID).Order("timestamp asc, id asc").Find(&events).Error
	return events, err
}
