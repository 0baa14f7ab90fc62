package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yanizio/complaintdesk/internal/config"
	"github.com/yanizio/complaintdesk/internal/metrics"
)

func TestProvision_CreatesTree(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	u := NewUploads(config.Uploads{Folder: root, AvatarSubdir: "avatars", ComplaintSubdir: "complaints"})

	require.NoError(t, u.Provision(zap.NewNop().Sugar()))
	require.DirExists(t, filepath.Join(root, "avatars"))
	require.DirExists(t, filepath.Join(root, "complaints"))

	// Idempotent.
	require.NoError(t, u.Provision(nil))
}

func TestProvision_FailureIsReportedNotFatal(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "uploads")
	require.NoError(t, os.WriteFile(blocker, []byte("a file, not a dir"), 0o644))

	core, logs := observer.New(zapcore.WarnLevel)
	before := testutil.ToFloat64(metrics.UploadProvisionErrorsTotal)

	u := NewUploads(config.Uploads{Folder: blocker, AvatarSubdir: "avatars", ComplaintSubdir: "complaints"})
	err := u.Provision(zap.New(core).Sugar())

	require.Error(t, err)
	require.Equal(t, 3, logs.Len())
	require.Equal(t, before+3, testutil.ToFloat64(metrics.UploadProvisionErrorsTotal))
}
