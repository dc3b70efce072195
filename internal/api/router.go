package api

import (
	"context"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/harborlane/cruise-reservation-backend/internal/announcement"
	annHttp "github.com/harborlane/cruise-reservation-backend/internal/announcement/http"
	"github.com/harborlane/cruise-reservation-backend/internal/auth"
	"github.com/harborlane/cruise-reservation-backend/internal/cabin"
	cabinHttp "github.com/harborlane/cruise-reservation-backend/internal/cabin/http"
	"github.com/harborlane/cruise-reservation-backend/internal/file"
	fileHttp "github.com/harborlane/cruise-reservation-backend/internal/file/http"
	"github.com/harborlane/cruise-reservation-backend/internal/inventory"
	invHttp "github.com/harborlane/cruise-reservation-backend/internal/inventory/http"
	"github.com/harborlane/cruise-reservation-backend/internal/reservation"
	resHttp "github.com/harborlane/cruise-reservation-backend/internal/reservation/http"
	"github.com/harborlane/cruise-reservation-backend/internal/staff"
	staffHttp "github.com/harborlane/cruise-reservation-backend/internal/staff/http"
	"github.com/harborlane/cruise-reservation-backend/internal/user"
	userHttp "github.com/harborlane/cruise-reservation-backend/internal/user/http"
)

// Config holds everything the router needs to assemble the API surface.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService        user.Service
	CabinService       cabin.Service
	InventoryService   inventory.Service
	StaffService       staff.Service
	ReservationService reservation.Service
	AnnService         announcement.Service
	FileService        file.Service

	JWTManager *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:5173", // guest portal dev server
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// sysAdminMiddleware: Further checks if the authenticated user has System Admin privileges.
	sysAdminMiddleware := RequireSystemAdmin(cfg.UserService)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewUserHandler(cfg.UserService, cfg.JWTManager)
	cabinHandler := cabinHttp.NewHandler(cfg.CabinService)
	invHandler := invHttp.NewHandler(cfg.InventoryService)
	staffHandler := staffHttp.NewHandler(cfg.StaffService)
	resHandler := resHttp.NewHandler(cfg.ReservationService, cfg.UserService)
	annHandler := annHttp.NewHandler(cfg.AnnService)
	fileHandler := fileHttp.NewHandler(cfg.FileService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, sysAdminMiddleware)
		cabinHttp.RegisterRoutes(v1, cabinHandler, authMiddleware, sysAdminMiddleware)
		invHttp.RegisterRoutes(v1, invHandler, authMiddleware, sysAdminMiddleware)
		staffHttp.RegisterRoutes(v1, staffHandler, authMiddleware, sysAdminMiddleware)
		resHttp.RegisterRoutes(v1, resHandler, authMiddleware)
		annHttp.RegisterRoutes(v1, annHandler, authMiddleware, sysAdminMiddleware)
		fileHttp.RegisterRoutes(v1, fileHandler, authMiddleware, sysAdminMiddleware)

		// Photo uploads attach the stored file to the subject entity.
		v1.POST("/cabins/:id/photo", authMiddleware, sysAdminMiddleware, func(c *gin.Context) {
			id := c.Param("id")
			fileHandler.HandleFileUpload(c, fileHttp.PhotoUploadConfig(func(ctx context.Context, fileID string) error {
				return cfg.CabinService.SetPhoto(ctx, id, fileID)
			}))
		})
		v1.POST("/inventory/:id/photo", authMiddleware, sysAdminMiddleware, func(c *gin.Context) {
			id := c.Param("id")
			fileHandler.HandleFileUpload(c, fileHttp.PhotoUploadConfig(func(ctx context.Context, fileID string) error {
				return cfg.InventoryService.SetPhoto(ctx, id, fileID)
			}))
		})
	}

	return r
}

func splitOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
