package repository

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Seweryn1777/Image/internal/domain"
)

// ImageRepository is the port to the relational catalog.
type ImageRepository interface {
	Insert(ctx context.Context, image *domain.Image) error
	FindByID(ctx context.Context, id string) (*domain.Image, error)
	Query(ctx context.Context, params domain.ListParams) ([]domain.Image, int64, error)
}

type imageRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewImageRepository(db *gorm.DB, log *zap.Logger) ImageRepository {
	return &imageRepository{
		db:  db,
		log: log,
	}
}

func (r *imageRepository) Insert(ctx context.Context, image *domain.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

// FindByID returns nil, nil when no record matches.
func (r *imageRepository) FindByID(ctx context.Context, id string) (*domain.Image, error) {
	var image domain.Image

	err := r.db.WithContext(ctx).First(&image, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &image, nil
}

// Query returns one page of records plus the total count of records
// matching the filter, regardless of the pagination window.
func (r *imageRepository) Query(ctx context.Context, params domain.ListParams) ([]domain.Image, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Image{})

	if params.Search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(params.Search)+"%")
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var images []domain.Image
	err := query.
		Order(orderColumn(params.OrderBy) + " " + orderDirection(params.OrderWay)).
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&images).Error
	if err != nil {
		return nil, 0, err
	}

	return images, count, nil
}

// orderColumn maps the enumerated sort field to its column. The whitelist
// keeps user input out of the ORDER BY clause.
func orderColumn(orderBy domain.OrderBy) string {
	switch orderBy {
	case domain.OrderByTitle:
		return "title"
	default:
		return "created_at"
	}
}

func orderDirection(orderWay domain.OrderWay) string {
	if orderWay == domain.OrderWayAsc {
		return "ASC"
	}
	return "DESC"
}
