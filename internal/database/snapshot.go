package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/gorm"
)

// snapshotService satisfies Service for snapshot-file deployments, where no
// SQL database exists. Health reports whether the snapshot's directory is
// writable; GetDB returns nil and must not be used in this mode.
type snapshotService struct {
	path string
}

// NewSnapshotService returns a Service for the JSON snapshot backend.
func NewSnapshotService(path string) Service {
	return &snapshotService{path: path}
}

func (s *snapshotService) GetDB() *gorm.DB { return nil }

func (s *snapshotService) Health() map[string]string {
	stats := make(map[string]string)
	if _, err := os.Stat(filepath.Dir(s.path)); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("snapshot directory inaccessible: %v", err)
		return stats
	}
	stats["status"] = "up"
	stats["message"] = "It's healthy"
	stats["snapshot_path"] = s.path
	return stats
}

func (s *snapshotService) Close() error { return nil }
