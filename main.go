package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"wolfs_web/internal/api"
	"wolfs_web/internal/game"
	"wolfs_web/internal/models"
	"wolfs_web/internal/repository"
	"wolfs_web/internal/service"
	"wolfs_web/internal/storage"
	"wolfs_web/internal/utils"
	"wolfs_web/pkg/config"
)

func main() {
	// 載入設定：.env -> config.yaml -> WOLFS_ 環境變數
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatalf("jwt.secret is not configured")
	}
	utils.Configure(cfg.JWT.Secret, cfg.JWT.Expiry)

	db, err := storage.NewPostgresDB(cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port, cfg.DB.TimeZone)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Character{},
		&models.Player{},
		&models.GameSession{},
		&models.GameSessionPlayer{},
		&models.GameEvent{},
	); err != nil {
		log.Fatalf("Failed to auto migrate database: %v", err)
	}

	repos := repository.NewRepositories(db)

	// 預設角色表
	roster := make([]models.Character, 0, 4)
	for _, c := range game.DefaultRoster() {
		roster = append(roster, models.Character{Name: c.Name, IsGood: c.IsGood})
	}
	if err := repos.Character.Seed(roster); err != nil {
		log.Fatalf("Failed to seed characters: %v", err)
	}

	// Redis 為選用，未設定時不快取遊戲狀態
	cache := repository.NewNoopSessionCache()
	if cfg.Redis.Addr != "" {
		client, err := storage.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to initialize redis: %v", err)
		}
		defer client.Close()
		cache = repository.NewRedisSessionCache(client, cfg.Redis.TTL)
		log.Printf("session cache enabled at %s", cfg.Redis.Addr)
	}

	services := service.NewServices(repos, cache)

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	api.SetupRoutes(r, services, cfg.Server.AllowedOrigins)

	log.Printf("listening on %s", cfg.Server.Address)
	if err := r.Run(cfg.Server.Address); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
