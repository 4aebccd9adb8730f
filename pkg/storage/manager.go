package storage

import (
	"context"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Connect returns the disk named by STORAGE_DISK. An s3 disk that cannot be
// configured falls back to local with a warning.
func Connect(ctx context.Context) Disk {
	local := NewLocal(config.StorageLocalRoot(), config.StorageURL())
	if config.StorageDefault() != "s3" {
		return local
	}

	d, err := NewS3(ctx, S3Config{
		Bucket:   config.StorageS3Bucket(),
		Region:   config.StorageS3Region(),
		Key:      config.StorageS3Key(),
		Secret:   config.StorageS3Secret(),
		Endpoint: config.StorageS3Endpoint(),
		URL:      config.StorageS3URL(),
	})
	if err != nil {
		logger.Warn("storage: s3 disk disabled, using local", "error", err)
		return local
	}
	return d
}
