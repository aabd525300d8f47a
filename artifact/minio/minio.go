// Package minio implements core.ArtifactStore on MinIO and S3-compatible
// object storage. Artifacts are stored under <prefix>/<sessionID>/<artifactID>.
package minio

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/shingyusik/scientific-analysis-agent/artifact"
)

// Store is an object-storage backed artifact store. Operations use
// context.Background; the store is intended for desktop session persistence
// where per-call deadlines are not needed.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewStore creates a MinIO artifact store. prefix is prepended to all keys
// (e.g. "artifacts/").
func NewStore(client *minio.Client, bucket, prefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *Store) key(sessionID, artifactID string) string {
	return path.Join(s.prefix, sessionID, artifactID)
}

func notFound(err error) bool {
	errResp := minio.ToErrorResponse(err)
	return errResp.Code == "NoSuchKey" || errResp.Code == "NotFound"
}

// Save uploads the artifact bytes.
func (s *Store) Save(sessionID, artifactID string, data []byte) error {
	_, err := s.client.PutObject(context.Background(), s.bucket, s.key(sessionID, artifactID),
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	return err
}

// Load downloads the artifact bytes or returns artifact.ErrNotFound.
func (s *Store) Load(sessionID, artifactID string) ([]byte, error) {
	obj, err := s.client.GetObject(context.Background(), s.bucket,
		s.key(sessionID, artifactID), minio.GetObjectOptions{})
	if err != nil {
		if notFound(err) {
			return nil, artifact.ErrNotFound
		}
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if notFound(err) {
			return nil, artifact.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// List returns the artifact ids stored for the session.
func (s *Store) List(sessionID string) ([]string, error) {
	prefix := path.Join(s.prefix, sessionID) + "/"

	var ids []string
	for obj := range s.client.ListObjects(context.Background(), s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		id := strings.TrimPrefix(obj.Key, prefix)
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Delete removes the artifact. Deleting a missing artifact returns
// artifact.ErrNotFound to match the other stores.
func (s *Store) Delete(sessionID, artifactID string) error {
	key := s.key(sessionID, artifactID)

	_, err := s.client.StatObject(context.Background(), s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if notFound(err) {
			return artifact.ErrNotFound
		}
		return err
	}
	return s.client.RemoveObject(context.Background(), s.bucket, key, minio.RemoveObjectOptions{})
}
