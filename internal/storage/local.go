// Package storage keeps uploaded receipt files on local disk and issues
// HMAC-signed, time-limited download URLs for them.
package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/swisscockpit/kmu-cockpit/internal/apperrors"
)

// LocalStore writes objects under a base directory. Object keys are relative
// slash paths; they never escape the base directory.
type LocalStore struct {
	baseDir   string
	secret    []byte
	signedTTL time.Duration
}

// NewLocalStore creates the base directory if needed.
func NewLocalStore(baseDir string, secret string, signedTTL time.Duration) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create storage dir %s: %w", baseDir, err)
	}
	return &LocalStore{
		baseDir:   baseDir,
		secret:    []byte(secret),
		signedTTL: signedTTL,
	}, nil
}

// Put writes an object and returns nothing; the caller chose the key.
func (s *LocalStore) Put(key string, data []byte) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create object dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("failed to write object %s: %w", key, err)
	}
	return nil
}

// Open opens an object for reading. The caller must close it.
func (s *LocalStore) Open(key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("stored file not found")
		}
		return nil, fmt.Errorf("failed to open object %s: %w", key, err)
	}
	return f, nil
}

// Delete removes an object. A missing object is not an error.
func (s *LocalStore) Delete(key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// SignKey produces the expiry timestamp and signature for a download URL.
func (s *LocalStore) SignKey(key string, now time.Time) (expires int64, signature string) {
	expires = now.Add(s.signedTTL).Unix()
	return expires, s.signatureFor(key, expires)
}

// VerifyKey checks a presented signature and expiry against the key.
func (s *LocalStore) VerifyKey(key string, expires int64, signature string) error {
	if time.Now().Unix() > expires {
		return apperrors.NewAppError(401, "download link expired", apperrors.ErrUnauthorized)
	}
	expected := s.signatureFor(key, expires)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return apperrors.NewAppError(401, "invalid download signature", apperrors.ErrUnauthorized)
	}
	return nil
}

func (s *LocalStore) signatureFor(key string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(key))
	mac.Write([]byte("|"))
	mac.Write([]byte(strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

// resolve maps a key to a filesystem path, rejecting traversal attempts.
func (s *LocalStore) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", apperrors.NewAppError(400, "invalid object key", apperrors.ErrValidation)
	}
	return filepath.Join(s.baseDir, clean), nil
}
