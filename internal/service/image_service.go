package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Seweryn1777/Image/internal/config"
	"github.com/Seweryn1777/Image/internal/domain"
	"github.com/Seweryn1777/Image/internal/repository"
	"github.com/Seweryn1777/Image/internal/storage"
	"github.com/Seweryn1777/Image/pkg/transform"
)

// imagePrefix namespaces every blob key written by the pipeline.
const imagePrefix = "images"

// signConcurrency bounds the presign fan-out during listing.
const signConcurrency = 8

type ImageService interface {
	Upload(ctx context.Context, in domain.UploadInput) (string, error)
	List(ctx context.Context, params domain.ListParams) (*domain.ImageList, error)
	GetByID(ctx context.Context, id string) (*domain.ImageWithURL, error)
}

type imageService struct {
	blobs  storage.BlobStore
	images repository.ImageRepository
	cfg    *config.Config
	log    *zap.Logger
}

func NewImageService(blobs storage.BlobStore, images repository.ImageRepository, cfg *config.Config, log *zap.Logger) ImageService {
	return &imageService{
		blobs:  blobs,
		images: images,
		cfg:    cfg,
		log:    log,
	}
}

// Upload runs the ingestion pipeline: resize, write the blob, insert the
// catalog record. A failed insert compensates by deleting the blob that
// was just written; the delete is best-effort and its own failure only
// gets logged. Repeated uploads of identical inputs always create
// distinct records under distinct keys.
func (s *imageService) Upload(ctx context.Context, in domain.UploadInput) (string, error) {
	resized, err := transform.Resize(in.Data, in.Width, in.Height)
	if err != nil {
		s.log.Error("Failed to transform image",
			zap.String("file", in.FileName),
			zap.Error(err))
		return "", domain.ErrTransform
	}

	key, err := s.blobs.Put(ctx, imagePrefix, resized.Buffer, in.FileName, in.MimeType)
	if err != nil {
		s.log.Error("Failed to store image blob",
			zap.String("file", in.FileName),
			zap.Error(err))
		return "", domain.ErrStorageWrite
	}

	image := &domain.Image{
		ID:         uuid.NewString(),
		Title:      in.Title,
		StorageKey: key,
		Width:      resized.Width,
		Height:     resized.Height,
		MimeType:   in.MimeType,
		Size:       int64(len(resized.Buffer)),
	}

	if err := s.images.Insert(ctx, image); err != nil {
		s.log.Error("Failed to insert image record, removing blob",
			zap.String("key", key),
			zap.Error(err))

		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.log.Error("Compensating blob delete failed",
				zap.String("key", key),
				zap.Error(delErr))
		}

		return "", domain.ErrIngestion
	}

	return image.ID, nil
}

// List queries the catalog and enriches every record with a fresh
// presigned URL. The URLs are signed concurrently but the returned order
// is the store's order.
func (s *imageService) List(ctx context.Context, params domain.ListParams) (*domain.ImageList, error) {
	params.Normalize()

	records, count, err := s.images.Query(ctx, params)
	if err != nil {
		return nil, err
	}

	items := make([]domain.ImageWithURL, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(signConcurrency)

	for i, record := range records {
		g.Go(func() error {
			url, err := s.signURL(gctx, record.StorageKey)
			if err != nil {
				return err
			}
			items[i] = domain.ImageWithURL{Image: record, URL: url}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.ImageList{Images: items, Count: count}, nil
}

func (s *imageService) GetByID(ctx context.Context, id string) (*domain.ImageWithURL, error) {
	image, err := s.images.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, domain.ErrNotFound
	}

	url, err := s.signURL(ctx, image.StorageKey)
	if err != nil {
		return nil, err
	}

	return &domain.ImageWithURL{Image: *image, URL: url}, nil
}

func (s *imageService) signURL(ctx context.Context, key string) (string, error) {
	url, err := s.blobs.SignURL(ctx, key, s.cfg.App.SignedURLTTL)
	if err != nil {
		s.log.Error("Failed to presign image URL",
			zap.String("key", key),
			zap.Error(err))
		return "", domain.ErrStorageSign
	}
	return url, nil
}
