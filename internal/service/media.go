package service

import (
	"alcyxob/fitness-admin/internal/media"
	"context"
)

// URLResolver turns an optional upload plus a URL text field into the stored media URL.
// *media.Uploader satisfies it.
type URLResolver interface {
	ResolveURL(ctx context.Context, file *media.File, text string) (*string, error)
}
