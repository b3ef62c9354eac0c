package domain

import (
	"time"
)

// Image is one catalogued upload. The storage key is the internal locator
// into the blob store and is never serialized.
type Image struct {
	ID         string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Title      string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	StorageKey string    `gorm:"column:storage_key;type:varchar(500);not null;uniqueIndex" json:"-"`
	Width      int       `gorm:"column:width;not null" json:"width"`
	Height     int       `gorm:"column:height;not null" json:"height"`
	MimeType   string    `gorm:"column:mime_type;type:varchar(100);not null" json:"mimeType"`
	Size       int64     `gorm:"column:size;not null" json:"size"`
	CreatedAt  time.Time `gorm:"column:created_at;not null;index:idx_created_at" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null" json:"updatedAt"`
}

func (Image) TableName() string {
	return "images"
}

// ImageWithURL is an Image enriched with a freshly presigned read URL.
type ImageWithURL struct {
	Image
	URL string `json:"url"`
}

// ImageList is one page of the catalog. Count is the number of records
// matching the filter, independent of the pagination window.
type ImageList struct {
	Images []ImageWithURL `json:"images"`
	Count  int64          `json:"count"`
}

type OrderBy string

const (
	OrderByCreatedAt OrderBy = "createdAt"
	OrderByTitle     OrderBy = "title"
)

type OrderWay string

const (
	OrderWayAsc  OrderWay = "ASC"
	OrderWayDesc OrderWay = "DESC"
)

const (
	DefaultLimit = 25
	MaxLimit     = 500
)

// ListParams describe one listing query. Zero values are replaced with the
// defaults by Normalize.
type ListParams struct {
	Search   string
	Limit    int
	Offset   int
	OrderBy  OrderBy
	OrderWay OrderWay
}

func (p *ListParams) Normalize() {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.OrderBy == "" {
		p.OrderBy = OrderByCreatedAt
	}
	if p.OrderWay == "" {
		p.OrderWay = OrderWayDesc
	}
}

// UploadInput carries one validated upload into the ingestion pipeline.
// Width and Height are the requested target dimensions; zero means the
// axis was not requested.
type UploadInput struct {
	Title    string
	Width    int
	Height   int
	Data     []byte
	FileName string
	MimeType string
}
