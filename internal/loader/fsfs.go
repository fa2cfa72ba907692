package loader

import (
	"context"
	"errors"
	"io/fs"
)

func loadFromFS(ctx context.Context, filesystem fs.FS, name string) ([]byte, error) {
	if filesystem == nil {
		return nil, errors.New("slicer loader: filesystem is not configured")
	}
	if name == "" {
		return nil, errors.New("slicer loader: fs path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	return fs.ReadFile(filesystem, name)
}
