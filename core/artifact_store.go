package core

// ArtifactStore persists named binary artifacts (rendered previews, snapshot
// archives) scoped by session.
type ArtifactStore interface {
	Save(sessionID, id string, data []byte) error
	Load(sessionID, id string) ([]byte, error)
	List(sessionID string) ([]string, error)
	Delete(sessionID, id string) error
}
