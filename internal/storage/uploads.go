// Package storage prepares the on-disk layout for user uploads.
//
// Provisioning is best-effort.  The directories may be created later, or
// mounted from elsewhere, so a failure is logged and counted but never
// stops startup.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/yanizio/complaintdesk/internal/config"
	"github.com/yanizio/complaintdesk/internal/metrics"
)

// Uploads names the three upload directories.
type Uploads struct {
	Root         string
	AvatarDir    string
	ComplaintDir string
}

// NewUploads resolves the subdirectories against the upload root.
func NewUploads(c config.Uploads) Uploads {
	return Uploads{
		Root:         c.Folder,
		AvatarDir:    filepath.Join(c.Folder, c.AvatarSubdir),
		ComplaintDir: filepath.Join(c.Folder, c.ComplaintSubdir),
	}
}

// Provision creates every directory it can and returns the joined
// failures.  Each failure is also logged at WARN and counted.
func (u Uploads) Provision(log *zap.SugaredLogger) error {
	if log == nil {
		log = zap.S()
	}

	var errs []error
	for _, dir := range []string{u.Root, u.AvatarDir, u.ComplaintDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			metrics.UploadProvisionErrorsTotal.Inc()
			log.Warnw("upload directory not created", "dir", dir, "err", err)
			errs = append(errs, fmt.Errorf("storage: mkdir %s: %w", dir, err))
			continue
		}
		log.Debugw("upload directory ready", "dir", dir)
	}
	return errors.Join(errs...)
}
