package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound 查無資料，由 gorm.ErrRecordNotFound 轉換而來
var ErrNotFound = errors.New("record not found")

// translate 將 gorm 的錯誤轉成 repository 層的錯誤
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}
