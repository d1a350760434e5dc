package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Connect returns nil when no endpoint is configured. The bucket is created if missing.
func Connect(ctx context.Context, opts Options) (*minio.Client, error) {
	if opts.Endpoint == "" {
		log.Println("⚠️ MINIO_ENDPOINT not set, image upload disabled")
		return nil, nil
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
		log.Printf("✅ Bucket %s created", opts.Bucket)
	}

	log.Println("✅ Connected to MinIO:", opts.Endpoint)
	return client, nil
}

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// ImageContentType maps a file name to its image MIME type, or "" when the extension is not allowed.
func ImageContentType(filename string) string {
	return allowedImageTypes[strings.ToLower(path.Ext(filename))]
}

// ProductImageKey is the object key for a new image of a product.
func ProductImageKey(productID uint, filename string) string {
	return fmt.Sprintf("products/%d/%s%s", productID, uuid.NewString(), strings.ToLower(path.Ext(filename)))
}

type ImageStore struct {
	client   *minio.Client
	bucket   string
	endpoint string
	secure   bool
}

func NewImageStore(client *minio.Client, opts Options) *ImageStore {
	return &ImageStore{client: client, bucket: opts.Bucket, endpoint: opts.Endpoint, secure: opts.UseSSL}
}

// PutProductImage uploads the image and returns its public URL.
func (s *ImageStore) PutProductImage(ctx context.Context, productID uint, filename string, r io.Reader, size int64) (string, error) {
	contentType := ImageContentType(filename)
	if contentType == "" {
		return "", fmt.Errorf("unsupported image type %q", path.Ext(filename))
	}

	key := ProductImageKey(productID, filename)
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return s.objectURL(key), nil
}

func (s *ImageStore) objectURL(key string) string {
	scheme := "http"
	if s.secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, key)
}
