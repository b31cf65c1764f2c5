package utils

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Konathalavenkat/AuctionSphereX/config"
)

// ImageStore accepts an uploaded file and returns a durable public URL.
type ImageStore interface {
	Save(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error)
}

var (
	imageStore     ImageStore
	imageStoreOnce sync.Once
)

// GetImageStore returns the configured image store: MinIO when an endpoint is
// configured, local disk under UploadDir otherwise.
func GetImageStore() ImageStore {
	imageStoreOnce.Do(func() {
		cfg := config.Get()
		if cfg.MinioEndpoint != "" {
			store, err := newMinioStore(cfg)
			if err == nil {
				imageStore = store
				return
			}
			if Sugar != nil {
				Sugar.Errorf("minio init failed, falling back to local storage: %v", err)
			}
		}
		imageStore = &localStore{baseDir: cfg.UploadDir}
	})
	return imageStore
}

// SetImageStoreForTesting swaps the store singleton. Tests only.
func SetImageStoreForTesting(s ImageStore) {
	imageStoreOnce.Do(func() {})
	imageStore = s
}

type minioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func newMinioStore(cfg config.AppConfig) (*minioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	publicURL := cfg.MinioPublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.MinioEndpoint, cfg.MinioBucket)
	}
	return &minioStore{client: client, bucket: cfg.MinioBucket, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (m *minioStore) Save(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	info, err := m.client.PutObject(ctx, m.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return m.publicURL + "/" + info.Key, nil
}

// localStore writes uploads below baseDir and serves them from /static/uploads.
type localStore struct {
	baseDir string
}

func (l *localStore) Save(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	dstPath := filepath.Join(l.baseDir, filepath.FromSlash(objectName))
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		_ = os.Remove(dstPath)
		return "", err
	}
	return "/static/uploads/" + path.Clean(objectName), nil
}
