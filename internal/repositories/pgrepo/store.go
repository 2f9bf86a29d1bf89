// Package pgrepo implements the document store on PostgreSQL through GORM.
// Sets are kept in JSON columns and read with row locks inside transactions.
package pgrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/anonto42/socialfeed/backend/internal/repositories"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Store implements repositories.Store for PostgreSQL
type Store struct {
	db   *gorm.DB
	inTx bool
}

// Open connects to PostgreSQL and verifies the connection
func Open(connStr string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}
	return &Store{db: db}, nil
}

// New wraps an existing GORM handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() repositories.UserRepository { return &userRepository{s} }

func (s *Store) Posts() repositories.PostRepository { return &postRepository{s} }

func (s *Store) Comments() repositories.CommentRepository { return &commentRepository{s} }

func (s *Store) Notifications() repositories.NotificationRepository {
	return &notificationRepository{s}
}

// WithinTransaction runs fn in a database transaction. Rows read by id inside
// fn are locked until commit.
func (s *Store) WithinTransaction(ctx context.Context, fn repositories.TxFunc) error {
	if s.inTx {
		return fn(ctx, s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &Store{db: tx, inTx: true})
	})
}

// Migrate creates or updates the tables
func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&userRow{}, &postRow{}, &commentRow{}, &notificationRow{})
}

// Close closes the underlying connection pool
func (s *Store) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// forUpdate is conn with a row lock when running inside a transaction.
func (s *Store) forUpdate(ctx context.Context) *gorm.DB {
	db := s.conn(ctx)
	if s.inTx {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

// rowID parses a decimal primary key. Malformed ids cannot match any row.
func rowID(id string) (uint, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return 0, repositories.ErrNotFound
	}
	return uint(n), nil
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repositories.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repositories.ErrDuplicate
	}
	return err
}

// updateByID sets one column on the row with the given id.
func updateByID(db *gorm.DB, model interface{}, id string, column string, value interface{}) error {
	pk, err := rowID(id)
	if err != nil {
		return err
	}
	res := db.Model(model).Where("id = ?", pk).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
