package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"msb-booking/internal/config"
	"msb-booking/internal/domain"
	"msb-booking/internal/identity"
	"msb-booking/internal/repository"
)

const maxAvatarSize = 5 << 20

var (
	ErrAvatarTooLarge  = errors.New("avatar exceeds 5MB")
	ErrUnsupportedType = errors.New("avatar must be a JPEG, PNG or WebP image")

	ErrStorageUnavailable = errors.New("object storage unavailable")
)

var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type objectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type Service interface {
	Get(ctx context.Context) (*domain.Customer, error)
	Update(ctx context.Context, input domain.UpdateProfileInput) (*domain.Customer, error)
	UploadAvatar(ctx context.Context, size int64, contentType string, reader io.Reader) (*domain.Customer, error)
}

type service struct {
	customerRepo repository.CustomerRepository
	objects      objectStore
	cfg          *config.Config
}

func NewService(customerRepo repository.CustomerRepository, minioClient *minio.Client, cfg *config.Config) Service {
	if minioClient == nil {
		return newService(customerRepo, nil, cfg)
	}
	return newService(customerRepo, minioClient, cfg)
}

func newService(customerRepo repository.CustomerRepository, objects objectStore, cfg *config.Config) *service {
	return &service{
		customerRepo: customerRepo,
		objects:      objects,
		cfg:          cfg,
	}
}

func (s *service) Get(ctx context.Context) (*domain.Customer, error) {
	user, err := identity.Require(ctx)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, user.ID)
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.AvatarPath != nil {
		customer.AvatarURL = s.publicURL(*customer.AvatarPath)
	}
	return customer, nil
}

func (s *service) Update(ctx context.Context, input domain.UpdateProfileInput) (*domain.Customer, error) {
	user, err := identity.Require(ctx)
	if err != nil {
		return nil, err
	}

	customer, err := s.load(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		customer.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.ContactNumber != nil {
		contact := strings.TrimSpace(*input.ContactNumber)
		customer.ContactNumber = &contact
	}

	if err := s.customerRepo.UpdateProfile(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// UploadAvatar stores the image and swaps it in; the previous object is
// removed only after the profile points at the new one.
func (s *service) UploadAvatar(ctx context.Context, size int64, contentType string, reader io.Reader) (*domain.Customer, error) {
	user, err := identity.Require(ctx)
	if err != nil {
		return nil, err
	}
	if s.objects == nil {
		return nil, ErrStorageUnavailable
	}
	if size > maxAvatarSize {
		return nil, ErrAvatarTooLarge
	}
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return nil, ErrUnsupportedType
	}

	customer, err := s.load(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	objectName := path.Join("avatars", user.ID.String(), uuid.NewString()+ext)
	_, err = s.objects.PutObject(ctx, s.cfg.MinIOBucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to MinIO: %w", err)
	}

	if err := s.customerRepo.SetAvatarPath(ctx, user.ID, objectName); err != nil {
		_ = s.objects.RemoveObject(ctx, s.cfg.MinIOBucket, objectName, minio.RemoveObjectOptions{})
		return nil, err
	}

	if customer.AvatarPath != nil {
		_ = s.objects.RemoveObject(ctx, s.cfg.MinIOBucket, *customer.AvatarPath, minio.RemoveObjectOptions{})
	}

	customer.AvatarPath = &objectName
	customer.AvatarURL = s.publicURL(objectName)
	return customer, nil
}

func (s *service) publicURL(objectName string) string {
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.MinIOPublicEndpoint, s.cfg.MinIOBucket, objectName)
}
