package domain

// VersionInfo reports the revision of the repository containing a path.
type VersionInfo interface {
	CommitHash(path string) (string, error)
}

// ShortRevision abbreviates a commit hash the way git log does.
func ShortRevision(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
