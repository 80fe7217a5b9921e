package blob

import (
	"context"
	"fmt"
)

const (
	TypeMemory     = "memory"
	TypeFileSystem = "filesystem"
	TypeS3         = "s3"
)

// Config selects and configures a Store implementation.
type Config struct {
	Type string
	Path string
	S3   S3Config
}

// NewFromConfig creates the Store named by cfg.Type.
func NewFromConfig(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Type {
	case TypeMemory:
		return NewMemory(), nil
	case TypeFileSystem:
		if cfg.Path == "" {
			return nil, fmt.Errorf("filesystem blob store requires storage path to be set")
		}
		return NewFileSystem(cfg.Path)
	case TypeS3:
		if cfg.S3.Bucket == "" {
			return nil, fmt.Errorf("s3 blob store requires a bucket")
		}
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown blob store type: %s", cfg.Type)
	}
}
