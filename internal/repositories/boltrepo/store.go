// Package boltrepo implements the document store on an embedded bbolt file.
// Every write path runs in a single read-write bbolt transaction, so the store
// is serialized and each WithinTransaction call is atomic.
package boltrepo

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/anonto42/socialfeed/backend/internal/repositories"
	jsoniter "github.com/json-iterator/go"
	bolt "go.etcd.io/bbolt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	bucketUsers            = []byte("users")
	bucketUsersByExternal  = []byte("users_by_external_id")
	bucketUsersOrder       = []byte("users_order")
	bucketPosts            = []byte("posts")
	bucketPostsOrder       = []byte("posts_order")
	bucketPostsByAuthor    = []byte("posts_by_author")
	bucketComments         = []byte("comments")
	bucketCommentsByPost   = []byte("comments_by_post")
	bucketCommentsByParent = []byte("comments_by_parent")
	bucketNotifications    = []byte("notifications")
	bucketNotifsByUser     = []byte("notifications_by_recipient")

	allBuckets = [][]byte{
		bucketUsers, bucketUsersByExternal, bucketUsersOrder,
		bucketPosts, bucketPostsOrder, bucketPostsByAuthor,
		bucketComments, bucketCommentsByPost, bucketCommentsByParent,
		bucketNotifications, bucketNotifsByUser,
	}
)

// Store implements repositories.Store using BoltDB
type Store struct {
	db *bolt.DB
	tx *bolt.Tx
}

// Open opens (or creates) the database file and its buckets.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Users() repositories.UserRepository { return &userRepository{s} }

func (s *Store) Posts() repositories.PostRepository { return &postRepository{s} }

func (s *Store) Comments() repositories.CommentRepository { return &commentRepository{s} }

func (s *Store) Notifications() repositories.NotificationRepository {
	return &notificationRepository{s}
}

// WithinTransaction runs fn inside one read-write transaction. Calls made
// while already bound to a transaction reuse it.
func (s *Store) WithinTransaction(ctx context.Context, fn repositories.TxFunc) error {
	if s.tx != nil {
		return fn(ctx, s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return fn(ctx, &Store{db: s.db, tx: tx})
	})
}

// Migrate creates the buckets
func (s *Store) Migrate(ctx context.Context) error {
	return s.update(ctx, func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
}

// Close closes the database
func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}

func (s *Store) view(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.tx != nil {
		return fn(s.tx)
	}
	return s.db.View(fn)
}

func (s *Store) update(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.tx != nil {
		return fn(s.tx)
	}
	return s.db.Update(fn)
}

// seqKey encodes n so that byte order matches insertion order.
func seqKey(n uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, n)
	return key
}

func putJSON(b *bolt.Bucket, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put([]byte(id), data)
}

func getJSON(b *bolt.Bucket, id string, v any) error {
	data := b.Get([]byte(id))
	if data == nil {
		return repositories.ErrNotFound
	}
	return json.Unmarshal(data, v)
}

// appendIndex records id under a fresh sequence key of the named sub-bucket.
func appendIndex(tx *bolt.Tx, parent []byte, name string, seq uint64, id string) error {
	b, err := tx.Bucket(parent).CreateBucketIfNotExists([]byte(name))
	if err != nil {
		return err
	}
	return b.Put(seqKey(seq), []byte(id))
}

// indexedIDs lists the ids stored in an order index, oldest first unless desc.
func indexedIDs(b *bolt.Bucket, desc bool) []string {
	if b == nil {
		return nil
	}
	var ids []string
	c := b.Cursor()
	if desc {
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			ids = append(ids, string(v))
		}
	} else {
		for k, v := c.First(); k != nil; k, v = c.Next() {
			ids = append(ids, string(v))
		}
	}
	return ids
}

// nested returns the sub-bucket name of parent, or nil when it does not exist yet.
func nested(tx *bolt.Tx, parent []byte, name string) *bolt.Bucket {
	if name == "" {
		return nil
	}
	return tx.Bucket(parent).Bucket([]byte(name))
}
