package token

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/opsdesk/deskctl/internal/errors"
	"github.com/opsdesk/deskctl/internal/log"
)

// credentials is the on-disk shape of the credential file
type credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// FileStore persists credentials as a JSON file with 0600 permissions.
//
// The default location is ~/.deskctl/credentials.json.
type FileStore struct {
	path   string
	logger *log.Logger
}

// NewFileStore creates a file-backed store at the given path
func NewFileStore(path string, logger *log.Logger) *FileStore {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &FileStore{path: path, logger: logger}
}

// Path returns the credential file location
func (s *FileStore) Path() string {
	return s.path
}

// Access returns the stored access token, if any
func (s *FileStore) Access(ctx context.Context) (string, bool) {
	creds, ok := s.load()
	if !ok || creds.AccessToken == "" {
		return "", false
	}
	return creds.AccessToken, true
}

// Refresh returns the stored refresh token, if any
func (s *FileStore) Refresh(ctx context.Context) (string, bool) {
	creds, ok := s.load()
	if !ok || creds.RefreshToken == "" {
		return "", false
	}
	return creds.RefreshToken, true
}

// Save persists both tokens, replacing whatever was stored before
func (s *FileStore) Save(ctx context.Context, access, refresh string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeDirectoryFailed, "failed to create credential directory", err)
	}

	data, err := json.MarshalIndent(credentials{
		AccessToken:  access,
		RefreshToken: refresh,
	}, "", "  ")
	if err != nil {
		return errors.NewTokenWriteError(err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return errors.NewTokenWriteError(err)
	}
	return nil
}

// ClearAccess removes the access token only, keeping the refresh token
func (s *FileStore) ClearAccess(ctx context.Context) error {
	creds, ok := s.load()
	if !ok {
		return nil
	}
	if creds.RefreshToken == "" {
		return s.ClearAll(ctx)
	}
	return s.Save(ctx, "", creds.RefreshToken)
}

// ClearAll removes the credential file. A missing file is not an error.
func (s *FileStore) ClearAll(ctx context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeTokenClearFailed, "failed to remove credentials", err)
	}
	return nil
}

// load reads the credential file. Any failure reads as absence; corrupt
// files are logged at debug level and otherwise ignored.
func (s *FileStore) load() (credentials, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Debug("credential file unreadable", "path", s.path, "error", err.Error())
		}
		return credentials{}, false
	}

	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		s.logger.Debug("credential file corrupt", "path", s.path, "error", err.Error())
		return credentials{}, false
	}
	return creds, true
}
