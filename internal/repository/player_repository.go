package repository

import (
	"errors"

	"gorm.io/gorm"

	"wolfs_web/internal/models"
	"wolfs_web/internal/storage"
)

// PlayerAssignment 一位用戶在房間中被分配的角色
type PlayerAssignment struct {
	UserID      uint
	CharacterID uint
}

type PlayerRepository interface {
	// Assign 建立或重用房間內的 Player，覆寫角色並將 IsAlive 重設為 true
	Assign(roomID uint, assignments []PlayerAssignment) ([]models.Player, error)
	// FindByRoom 查詢房間中屬於指定用戶的 Player，並預載 User 與 Character
	FindByRoom(roomID uint, userIDs []uint) ([]models.Player, error)
}

type playerRepository struct {
	db *storage.PostgresDB
}

func NewPlayerRepository(db *storage.PostgresDB) PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) Assign(roomID uint, assignments []PlayerAssignment) ([]models.Player, error) {
	players := make([]models.Player, 0, len(assignments))
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, a := range assignments {
			var player models.Player
			err := tx.Where("room_id = ? AND user_id = ?", roomID, a.UserID).First(&player).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				player = models.Player{UserID: a.UserID, RoomID: roomID, CharacterID: a.CharacterID, IsAlive: true}
				if err := tx.Create(&player).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			default:
				player.CharacterID = a.CharacterID
				player.IsAlive = true
				if err := tx.Save(&player).Error; err != nil {
					return err
				}
			}
			players = append(players, player)
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, "assign players")
	}
	return players, nil
}

func (r *playerRepository) FindByRoom(roomID uint, userIDs []uint) ([]models.Player, error) {
	var players []models.Player
	if len(userIDs) == 0 {
		return players, nil
	}
	err := r.db.Preload("User").Preload("Character").
		Where("room_id = ? AND user_id IN ?", roomID, userIDs).
		Order("id asc").
		Find(&players).Error
	return players, err
}
