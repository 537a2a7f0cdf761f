// Package tokenstore caches seafile auth tokens in a bolt database, keyed by server and user.
// 使用 bolt 数据库缓存 seafile 令牌, 以服务器和用户为键.
package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("tokens")

// ErrNotFound is returned by Get when no token is cached. 未缓存令牌时由 Get 返回.
var ErrNotFound = errors.New("tokenstore: token not found")

// Entry is one cached token. 单个缓存的令牌.
type Entry struct {
	Token         string    `json:"token"`
	ServerVersion string    `json:"server_version,omitempty"`
	SavedAt       time.Time `json:"saved_at"`
}

// Store is a bolt backed token cache. 基于 bolt 的令牌缓存.
type Store struct {
	db *bolt.DB
}

// Open opens (possibly creating) the cache file at path. 打开 (必要时创建) 缓存文件.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open token cache %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return fmt.Errorf("create tokens bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func key(server, username string) []byte {
	return []byte(strings.TrimRight(server, "/") + "\x00" + strings.ToLower(username))
}

// Get returns the cached entry for a server and user. 返回服务器与用户对应的缓存项.
func (s *Store) Get(server, username string) (Entry, error) {
	var e Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketName).Get(key(server, username))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &e)
	})
	return e, err
}

// Put stores a token, replacing any previous one. 保存令牌, 覆盖旧值.
func (s *Store) Put(server, username string, e Entry) error {
	if e.SavedAt.IsZero() {
		e.SavedAt = time.Now()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(key(server, username), data)
	})
}

// Delete forgets the token of a server and user. 删除服务器与用户对应的令牌.
func (s *Store) Delete(server, username string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete(key(server, username))
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}
