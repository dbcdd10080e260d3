package filestore

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/nacl/secretbox"
)

// sealedMagic prefixes files written with a passphrase.
var sealedMagic = []byte("FPS1")

const nonceSize = 24

var ErrSealed = errors.New("session file is sealed; passphrase required")

// Store keeps the key-value pairs in a single JSON file, rewritten
// atomically on every change. With a passphrase the file is sealed with
// NaCl secretbox under a BLAKE2b-256 key derived from it.
type Store struct {
	path string
	key  *[32]byte
	mu   sync.Mutex
}

// New returns a store backed by path. An empty passphrase stores plain JSON.
func New(path, passphrase string) *Store {
	s := &Store{path: path}
	if passphrase != "" {
		k := blake2b.Sum256([]byte(passphrase))
		s.key = &k
	}
	return s
}

func (s *Store) Path() string { return s.path }

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.readForWrite()
	if err != nil && !errors.Is(err, errUnreadable) {
		return err
	}
	data[key] = value
	return s.write(data)
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.readForWrite()
	if errors.Is(err, errUnreadable) {
		return s.write(data)
	}
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return s.write(data)
}

// errUnreadable marks a file that exists but cannot be decoded.
var errUnreadable = errors.New("session file unreadable")

// readForWrite is read for callers about to rewrite the file. A file that
// cannot be decoded or opened is discarded and an empty map returned along
// with errUnreadable; writes then replace it instead of failing forever.
func (s *Store) readForWrite() (map[string]string, error) {
	data, err := s.read()
	if err == nil {
		return data, nil
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return nil, err
	}
	slog.Warn("discarding unreadable session file", "path", s.path, "err", err)
	return make(map[string]string), errUnreadable
}

func (s *Store) read() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if len(raw) == 0 {
		return make(map[string]string), nil
	}
	if bytes.HasPrefix(raw, sealedMagic) {
		if raw, err = s.open(raw[len(sealedMagic):]); err != nil {
			return nil, err
		}
	}
	data := make(map[string]string)
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	return data, nil
}

func (s *Store) write(data map[string]string) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	if s.key != nil {
		if raw, err = s.seal(raw); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *Store) seal(plain []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	out := append([]byte{}, sealedMagic...)
	out = append(out, nonce[:]...)
	return secretbox.Seal(out, plain, &nonce, s.key), nil
}

func (s *Store) open(box []byte) ([]byte, error) {
	if s.key == nil {
		return nil, ErrSealed
	}
	if len(box) < nonceSize+secretbox.Overhead {
		return nil, errors.New("session file is truncated")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, s.key)
	if !ok {
		return nil, errors.New("session file cannot be opened with this passphrase")
	}
	return plain, nil
}
