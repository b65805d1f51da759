// Package storage persists uploaded editorial media (cover images and
// attachments) behind a single interface with local-disk and object-store
// backends.
package storage

import (
	"context"
	"fmt"
	"strings"

	"portalcms/internal/config"
)

const (
	// TypeLocal stores files on the local filesystem.
	TypeLocal = "local"
	// TypeS3 stores files on Amazon S3 or a compatible backend.
	TypeS3 = "s3"
	// TypeOSS stores files on Aliyun OSS.
	TypeOSS = "oss"
	// TypeCOS stores files on Tencent COS.
	TypeCOS = "cos"
	// TypeR2 stores files on Cloudflare R2.
	TypeR2 = "r2"
)

// SaveOptions controls where and under which name an upload lands. Kind
// groups files on disk (covers, attachments); Extension is the preferred file
// extension without the leading dot.
type SaveOptions struct {
	Kind      string
	Extension string
	BaseName  string
}

// Storage persists binary data and returns a backend key. The key joined to
// the configured public base URL yields the address clients use.
type Storage interface {
	Save(ctx context.Context, data []byte, opts SaveOptions) (string, error)
}

// LocalBaseDirProvider is implemented by backends whose files can be served
// directly from a local directory.
type LocalBaseDirProvider interface {
	LocalBaseDir() string
}

// NewStorage instantiates the backend selected by configuration.
func NewStorage(cfg config.Config) (Storage, error) {
	typeName := strings.ToLower(strings.TrimSpace(cfg.StorageType))
	switch typeName {
	case "", TypeLocal:
		return NewLocalStorage(cfg.StorageLocalDir)
	case TypeS3:
		return NewS3Storage(cfg)
	case TypeOSS:
		return NewOSSStorage(cfg)
	case TypeCOS:
		return NewCOSStorage(cfg)
	case TypeR2:
		return NewR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}
