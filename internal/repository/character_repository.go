package repository

import (
	"errors"

	"gorm.io/gorm"

	"wolfs_web/internal/models"
	"wolfs_web/internal/storage"
)

type CharacterRepository interface {
	FindAll() ([]models.Character, error)
	FindByIDs(ids []uint) ([]models.Character, error)
	// Seed 依名稱寫入角色表，已存在的角色不會被修改
	Seed(characters []models.Character) error
}

type characterRepository struct {
	db *storage.PostgresDB
}

func NewCharacterRepository(db *storage.PostgresDB) CharacterRepository {
	return &characterRepository{db: db}
}

func (r *characterRepository) FindAll() ([]models.Character, error) {
	var characters []models.Character
	err := r.db.Order("id asc").Find(&characters).Error
	return characters, err
}

func (r *characterRepository) FindByIDs(ids []uint) ([]models.Character, error) {
	var characters []models.Character
	if len(ids) == 0 {
		return characters, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&characters).Error
	return characters, err
}

func (r *characterRepository) Seed(characters []models.Character) error {
	for i := range characters {
		c := characters[i]
		var existing models.Character
		err := r.db.Where("name = ?", c.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return translate(err, "seed character "+c.Name)
		}
		if err := r.db.Create(&c).Error; err != nil {
			return translate(err, "seed character "+c.Name)
		}
	}
	return nil
}
