package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Seweryn1777/Image/internal/config"
	"github.com/Seweryn1777/Image/internal/domain"
	"github.com/Seweryn1777/Image/internal/handler"
	"github.com/Seweryn1777/Image/internal/repository"
	"github.com/Seweryn1777/Image/internal/service"
	"github.com/Seweryn1777/Image/internal/storage"
)

type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	log        *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	db, err := gorm.Open(mysql.Open(cfg.DB.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&domain.Image{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	blobs, err := storage.NewS3Store(&cfg.S3, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob store: %w", err)
	}

	images := repository.NewImageRepository(db, log)
	imageService := service.NewImageService(blobs, images, cfg, log)

	h := handler.NewHandler(imageService, cfg, log)

	router.GET("/health", h.HealthCheck)
	router.POST("/image", h.UploadImage)
	router.GET("/image", h.ListImages)
	router.GET("/image/:id", h.GetImageByID)

	server := &Server{
		httpServer: &http.Server{
			Addr:           cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:        router,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
		cfg: cfg,
		log: log,
	}

	log.Info("Server created successfully",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port))

	return server, nil
}

func (s *Server) Run() error {
	s.log.Info("Server is running", zap.String("address", s.httpServer.Addr))

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	return s.httpServer.Shutdown(ctx)
}
