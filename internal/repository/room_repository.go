package repository

import (
	"wolfs_web/internal/models"
	"wolfs_web/internal/storage"
)

type RoomRepository interface {
	Create(room *models.Room) error
	FindByID(id uint) (*models.Room, error)
	Delete(id uint) error
	FindAll() ([]models.Room, error) // 簡單的列表查詢
	AddMembers(room *models.Room, users []models.User) error
	RemoveMember(room *models.Room, user *models.User) error
}

type roomRepository struct {
	db *storage.PostgresDB
}

func NewRoomRepository(db *storage.PostgresDB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(room *models.Room) error {
	return r.db.Create(room).Error
}

func (r *roomRepository) FindByID(id uint) (*models.Room, error) {
	var room models.Room
	err := r.db.Preload("Members").First(&room, id).Error
	if err != nil {
		return nil, translate(err, "find room")
	}
	return &room, nil
}

func (r *roomRepository) Delete(id uint) error {
	room := models.Room{}
	room.ID = id
	if err := r.db.Model(&room).Association("Members").Clear(); err != nil {
		return err
	}
	return r.db.Delete(&models.Room{}, id).Error
}

// FindAll 查詢所有房間
func (r *roomRepository) FindAll() ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.Preload("Members").Order("created_at DESC").Find(&rooms).Error
	return rooms, err
}

func (r *roomRepository) AddMembers(room *models.Room, users []models.User) error {
	if len(users) == 0 {
		return nil
	}
	return r.db.Model(room).Association("Members").Append(&users)
}

func (r *roomRepository) RemoveMember(room *models.Room, user *models.User) error {
	return r.db.Model(room).Association("Members").Delete(user)
}
