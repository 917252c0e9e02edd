package application

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/invoicer/invoicer/internal/domain"
)

// ConfigRevision returns the commit of the repository holding configPath, or
// "" when there is none.
func ConfigRevision(vcs domain.VersionInfo, configPath string, logger *zap.Logger) string {
	if vcs == nil || configPath == "" {
		return ""
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	hash, err := vcs.CommitHash(filepath.Dir(configPath))
	if err != nil {
		logger.Debug("config is not in a git repository", zap.String("config", configPath), zap.Error(err))
		return ""
	}
	return hash
}
