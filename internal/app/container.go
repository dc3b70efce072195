package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborlane/cruise-reservation-backend/internal/announcement"
	"github.com/harborlane/cruise-reservation-backend/internal/api"
	"github.com/harborlane/cruise-reservation-backend/internal/auth"
	"github.com/harborlane/cruise-reservation-backend/internal/cabin"
	"github.com/harborlane/cruise-reservation-backend/internal/file"
	"github.com/harborlane/cruise-reservation-backend/internal/inventory"
	"github.com/harborlane/cruise-reservation-backend/internal/pkg/storage"
	"github.com/harborlane/cruise-reservation-backend/internal/reservation"
	"github.com/harborlane/cruise-reservation-backend/internal/staff"
	"github.com/harborlane/cruise-reservation-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	StoragePath  string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Cabin Module
	cabinRepo := cabin.NewPgxRepository(cfg.DBPool)
	cabinService := cabin.NewService(cabinRepo)

	// Inventory Module
	invRepo := inventory.NewPgxRepository(cfg.DBPool)
	invService := inventory.NewService(invRepo)

	// Staff Module
	staffRepo := staff.NewPgxRepository(cfg.DBPool)
	staffService := staff.NewService(staffRepo)

	// Reservation Module (booking engine)
	resRepo := reservation.NewPgxRepository(cfg.DBPool)
	resService := reservation.NewService(cfg.DBPool, resRepo, cabinRepo, invRepo, staffRepo)

	// Announcement Module
	annRepo := announcement.NewPgxRepository(cfg.DBPool)
	annService := announcement.NewService(annRepo)

	// File Module (cabin and inventory photos)
	fileStorage, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init file storage failed: %w", err)
	}
	fileRepo := file.NewRepository(cfg.DBPool)
	fileService := file.NewService(fileRepo, fileStorage)

	// API Router Config
	routerParams := api.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		UserService:        userService,
		CabinService:       cabinService,
		InventoryService:   invService,
		StaffService:       staffService,
		ReservationService: resService,
		AnnService:         annService,
		FileService:        fileService,
		JWTManager:         jwtManager,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}, nil
}
