package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/career-roadmap-api/pkg/errors"
)

// DefaultThumbnailSize is the edge length of generated thumbnails.
const DefaultThumbnailSize = 160

const maxThumbnailSize = 1024

type photoStore interface {
	GetAll(ctx context.Context) map[int]string
	Get(ctx context.Context, number int) (string, bool)
	Set(ctx context.Context, number int, data string) bool
}

var (
	errPhotoAbsent   = appErrors.Clone(appErrors.ErrNotFound, "photo not found")
	errPhotoNotImage = appErrors.Clone(appErrors.ErrNotFound, "stored photo is not an inline image")
)

// Image is a decoded photo ready to be served.
type Image struct {
	Data        []byte
	ContentType string
}

// PhotoService stores student photos and decodes them for serving.
type PhotoService struct {
	photos   photoStore
	students studentLookup
	logger   *zap.Logger
}

// NewPhotoService constructs a PhotoService.
func NewPhotoService(photos photoStore, students studentLookup, logger *zap.Logger) *PhotoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PhotoService{photos: photos, students: students, logger: logger}
}

// All returns every stored photo keyed by student number.
func (s *PhotoService) All(ctx context.Context) map[int]string {
	return s.photos.GetAll(ctx)
}

// Get returns the stored photo string for a student.
func (s *PhotoService) Get(ctx context.Context, number int) (string, error) {
	photo, ok := s.photos.Get(ctx, number)
	if !ok || photo == "" {
		return "", errPhotoAbsent
	}
	return photo, nil
}

// Set stores data as the student's photo. The payload is not inspected.
func (s *PhotoService) Set(ctx context.Context, number int, data string) error {
	if _, ok := s.students.Get(ctx, number); !ok {
		return errStudentAbsent
	}
	if !s.photos.Set(ctx, number, data) {
		return errWriteFailed
	}
	return nil
}

// Image decodes the stored data URI and sniffs its content type.
func (s *PhotoService) Image(ctx context.Context, number int) (Image, error) {
	photo, err := s.Get(ctx, number)
	if err != nil {
		return Image{}, err
	}
	data, ok := DecodeDataURI(photo)
	if !ok {
		return Image{}, errPhotoNotImage
	}
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return Image{}, errPhotoNotImage
	}
	return Image{Data: data, ContentType: mime.String()}, nil
}

// Thumbnail returns a square PNG thumbnail of the stored photo.
func (s *PhotoService) Thumbnail(ctx context.Context, number, size int) (Image, error) {
	if size <= 0 {
		size = DefaultThumbnailSize
	}
	if size > maxThumbnailSize {
		size = maxThumbnailSize
	}
	img, err := s.Image(ctx, number)
	if err != nil {
		return Image{}, err
	}
	decoded, err := imaging.Decode(bytes.NewReader(img.Data), imaging.AutoOrientation(true))
	if err != nil {
		s.logger.Warn("photo decode failed", zap.Int("student_number", number), zap.String("content_type", img.ContentType), zap.Error(err))
		return Image{}, errPhotoNotImage
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.Thumbnail(decoded, size, size, imaging.Lanczos), imaging.PNG); err != nil {
		return Image{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode thumbnail")
	}
	return Image{Data: buf.Bytes(), ContentType: "image/png"}, nil
}

// DecodeDataURI extracts the payload of a data: URI. Both base64 and
// percent-encoded payloads are accepted.
func DecodeDataURI(uri string) ([]byte, bool) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, false
	}
	header, payload, found := strings.Cut(uri[len("data:"):], ",")
	if !found {
		return nil, false
	}
	if strings.HasSuffix(header, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(payload)
			if err != nil {
				return nil, false
			}
		}
		return data, true
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, false
	}
	return []byte(data), true
}
