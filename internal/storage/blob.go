// Package storage defines the object-store boundary for question and
// answer media. The API only depends on the BlobStore interface; the
// filesystem implementation below is the default backend, and a cloud
// bucket can be slotted in without touching handlers.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrBlobNotFound is returned when no blob exists under the given name.
var ErrBlobNotFound = errors.New("blob not found")

// ErrBlobExists is returned by Put when the name is already taken.
// Names are single-use: a ticket mints one, the upload consumes it.
var ErrBlobExists = errors.New("blob already exists")

// Blob is the retrieval result: raw bytes plus the metadata a media
// proxy response needs.
type Blob struct {
	Data        []byte
	ContentType string
	Size        int64
}

// UploadTicket is handed to clients that want to upload directly: a
// fresh blob name, where to PUT the bytes, where the blob will be
// readable afterwards, and how long the ticket is meant to be honored.
type UploadTicket struct {
	BlobName  string    `json:"blobName"`
	UploadURL string    `json:"uploadUrl"`
	PublicURL string    `json:"publicUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// BlobStore is the boundary to the managed object store.
type BlobStore interface {
	// Put stores data under name with the given content type.
	// ErrBlobExists when the name is taken; blobs are immutable once
	// written, so an authenticated client cannot clobber another
	// upload by replaying its name.
	Put(ctx context.Context, name, contentType string, data []byte) error
	// Get returns the blob's bytes and metadata, or ErrBlobNotFound.
	Get(ctx context.Context, name string) (Blob, error)
	// NewUploadTicket reserves a blob name derived from fileName's
	// extension and returns the upload/public URL pair for it.
	NewUploadTicket(fileName string) UploadTicket
}

// FSStore keeps blobs as plain files under a root directory. Content
// type is derived from the file extension on the way out, so no
// sidecar metadata is needed.
type FSStore struct {
	Root string
}

// NewFSStore creates the root directory if needed.
func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{Root: root}, nil
}

func (s *FSStore) Put(_ context.Context, name, _ string, data []byte) error {
	if !validBlobName(name) {
		return fmt.Errorf("invalid blob name %q", name)
	}
	// O_EXCL makes create-if-absent atomic, so two concurrent PUTs of
	// the same name cannot interleave.
	f, err := os.OpenFile(filepath.Join(s.Root, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return ErrBlobExists
		}
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *FSStore) Get(_ context.Context, name string) (Blob, error) {
	if !validBlobName(name) {
		return Blob{}, ErrBlobNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.Root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return Blob{}, ErrBlobNotFound
		}
		return Blob{}, err
	}
	return Blob{
		Data:        data,
		ContentType: ContentTypeFor(name),
		Size:        int64(len(data)),
	}, nil
}

// NewUploadTicket mints an unguessable uuid name. ExpiresAt is
// advisory for clients; the server does not track outstanding tickets,
// it relies on names being single-use and impractical to guess.
func (s *FSStore) NewUploadTicket(fileName string) UploadTicket {
	name := uuid.NewString()
	if ext := extension(fileName); ext != "" {
		name += "." + ext
	}
	return UploadTicket{
		BlobName:  name,
		UploadURL: "/v1/media/" + name,
		PublicURL: "/v1/media/" + name,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
}

// validBlobName rejects anything that could escape the root directory.
// Stored names are always uuid[.ext], so a strict check is cheap.
func validBlobName(name string) bool {
	return name != "" && !strings.ContainsAny(name, "/\\") && name != "." && name != ".."
}

func extension(fileName string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
}

var contentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"ogg":  "audio/ogg",
}

// ContentTypeFor maps a blob name's extension to a media content type,
// defaulting to application/octet-stream.
func ContentTypeFor(name string) string {
	if ct, ok := contentTypes[extension(name)]; ok {
		return ct
	}
	return "application/octet-stream"
}
