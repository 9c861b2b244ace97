package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"wolfs_web/internal/game"
	"wolfs_web/internal/models"
	"wolfs_web/internal/storage"
)

// GameRepository 負責 game.Session 與資料表之間的轉換
type GameRepository interface {
	// Create 寫入新遊戲並回填 Session.ID
	Create(s *game.Session) error
	Load(id uint) (*game.Session, error)
	// Save 在同一個交易中寫回遊戲狀態與玩家存活狀態
	Save(s *game.Session) error
	FindByRoom(roomID uint) ([]models.GameSession, error)
	// HasActiveSession 房間是否有尚未分出勝負的遊戲
	HasActiveSession(roomID uint) (bool, error)
	Delete(id uint) error
}

type gameRepository struct {
	db *storage.PostgresDB
}

func NewGameRepository(db *storage.PostgresDB) GameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) Create(s *game.Session) error {
	state := s.State()
	row, err := sessionRow(state)
	if err != nil {
		return err
	}

	partition := make(map[game.PlayerID]string, len(state.Players))
	for _, id := range state.Good {
		partition[id] = models.PartitionGood
	}
	for _, id := range state.Wolves {
		partition[id] = models.PartitionWolf
	}
	for _, p := range state.Players {
		row.Players = append(row.Players, models.GameSessionPlayer{
			PlayerID:  uint(p.ID),
			Partition: partition[p.ID],
			Role:      string(p.Role),
			IsGood:    p.IsGood,
			IsAlive:   p.IsAlive,
		})
	}

	if err := r.db.Create(row).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	s.ID = row.ID
	return nil
}

func (r *gameRepository) Load(id uint) (*game.Session, error) {
	var row models.GameSession
	err := r.db.Preload("Players", func(db *gorm.DB) *gorm.DB {
		return db.Order("player_id asc")
	}).Preload("Players.Player.User").First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", game.ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load session %d: %w", id, err)
	}

	state := game.State{
		ID:          row.ID,
		RoomID:      row.RoomID,
		Round:       row.Round,
		RoundActive: row.RoundActive,
		Winner:      game.Alignment(row.Winner),
		WolfVotes:   map[game.PlayerID]game.PlayerID{},
	}
	if row.HealerProtectID != nil {
		state.HealerProtect = game.PlayerID(*row.HealerProtectID)
	}
	if len(row.WolfVotes) > 0 {
		if err := json.Unmarshal(row.WolfVotes, &state.WolfVotes); err != nil {
			return nil, fmt.Errorf("decode wolf votes of session %d: %w", id, err)
		}
	}
	for _, sp := range row.Players {
		id := game.PlayerID(sp.PlayerID)
		state.Players = append(state.Players, game.Player{
			ID:      id,
			UserID:  sp.Player.UserID,
			Name:    sp.Player.User.Username,
			Role:    game.Role(sp.Role),
			IsGood:  sp.IsGood,
			IsAlive: sp.IsAlive,
		})
		switch sp.Partition {
		case models.PartitionGood:
			state.Good = append(state.Good, id)
		case models.PartitionWolf:
			state.Wolves = append(state.Wolves, id)
		}
	}
	return game.Restore(state)
}

func (r *gameRepository) Save(s *game.Session) error {
	state := s.State()
	row, err := sessionRow(state)
	if err != nil {
		return err
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.GameSession{}).Where("id = ?", state.ID).Updates(map[string]interface{}{
			"round":             row.Round,
			"round_active":      row.RoundActive,
			"winner":            row.Winner,
			"wolf_votes":        row.WolfVotes,
			"healer_protect_id": row.HealerProtectID,
		}).Error
		if err != nil {
			return fmt.Errorf("save session %d: %w", state.ID, err)
		}
		// players.is_alive 只是房間席位的鏡像，遊戲本身以 game_session_players 為準
		for _, p := range state.Players {
			err := tx.Model(&models.GameSessionPlayer{}).
				Where("game_session_id = ? AND player_id = ?", state.ID, uint(p.ID)).
				Update("is_alive", p.IsAlive).Error
			if err != nil {
				return fmt.Errorf("save player %d of session %d: %w", p.ID, state.ID, err)
			}
			err = tx.Model(&models.Player{}).Where("id = ?", uint(p.ID)).Update("is_alive", p.IsAlive).Error
			if err != nil {
				return fmt.Errorf("save player %d: %w", p.ID, err)
			}
		}
		return nil
	})
}

func (r *gameRepository) FindByRoom(roomID uint) ([]models.GameSession, error) {
	var sessions []models.GameSession
	err := r.db.Where("room_id = ?", roomID).Order("created_at DESC, id DESC").Find(&sessions).Error
	return sessions, err
}

func (r *gameRepository) HasActiveSession(roomID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.GameSession{}).
		Where("room_id = ? AND (winner = ? OR winner IS NULL)", roomID, "").
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count active sessions of room %d: %w", roomID, err)
	}
	return count > 0, nil
}

func (r *gameRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_session_id = ?", id).Delete(&models.GameSessionPlayer{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.GameSession{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %d", game.ErrSessionNotFound, id)
		}
		return nil
	})
}

func sessionRow(state game.State) (*models.GameSession, error) {
	votes, err := json.Marshal(state.WolfVotes)
	if err != nil {
		return nil, fmt.Errorf("encode wolf votes: %w", err)
	}
	row := &models.GameSession{
		RoomID:      state.RoomID,
		Round:       state.Round,
		RoundActive: state.RoundActive,
		Winner:      string(state.Winner),
		WolfVotes:   datatypes.JSON(votes),
	}
	row.ID = state.ID
	if state.HealerProtect != 0 {
		id := uint(state.HealerProtect)
		row.HealerProtectID = &id
	}
	return row, nil
}
