package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// HLivros is the hash holding all book records keyed by book id.
	HLivros string = "livros"
	// KLivrosSeq is the counter used to stamp each insert.
	KLivrosSeq string = "livros:seq"
)

type redisBookStorage struct {
	logger *zap.Logger
	client *redis.Client
}

// NewRedisBookStorage provides an instance of redis-based book storage.
func NewRedisBookStorage(logger *zap.Logger, client *redis.Client) BookStorage {
	return &redisBookStorage{
		logger: logger,
		client: client,
	}
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// Add inserts a new book record. The insertion counter value is taken
// from a redis sequence so the recency ordering stays stable even when
// two records share the same creation timestamp.
func (rs *redisBookStorage) Add(ctx context.Context, id string, book Book) (Book, error) {
	seq, err := rs.client.Incr(ctx, KLivrosSeq).Result()
	if err != nil {
		return book, err
	}
	book.Seq = seq

	bookBytes, err := json.Marshal(book)
	if err != nil {
		return book, err
	}
	return book, rs.client.HSet(ctx, HLivros, id, bookBytes).Err()
}

// GetOne retrieves a book record based on its ID.
func (rs *redisBookStorage) GetOne(ctx context.Context, id string) (Book, error) {
	var book Book
	bookJSONString, err := rs.client.HGet(ctx, HLivros, id).Result()
	if err == redis.Nil {
		return book, ErrBookNotFound
	}
	if err != nil {
		return book, err
	}
	err = json.Unmarshal([]byte(bookJSONString), &book)
	return book, err
}

// Delete removes a book record based on its ID.
func (rs *redisBookStorage) Delete(ctx context.Context, id string) error {
	deleted, err := rs.client.HDel(ctx, HLivros, id).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrBookNotFound
	}
	return nil
}

// Update replaces an existing book record data. Updating an unknown id
// reports not found instead of inserting a new record.
func (rs *redisBookStorage) Update(ctx context.Context, id string, book Book) (Book, error) {
	exists, err := rs.client.HExists(ctx, HLivros, id).Result()
	if err != nil {
		return book, err
	}
	if !exists {
		return book, ErrBookNotFound
	}

	bookBytes, err := json.Marshal(book)
	if err != nil {
		return book, err
	}
	err = rs.client.HSet(ctx, HLivros, id, bookBytes).Err()
	return book, err
}

// GetAll retrieves the list of all books stored in the redis database,
// ordered by creation time with the most recent record first. Records
// created at the same instant fall back to their insertion counter.
func (rs *redisBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	mapBooks, err := rs.client.HVals(ctx, HLivros).Result()
	if err != nil {
		return nil, err
	}
	books := []Book{}
	for _, bookJSONString := range mapBooks {
		var book Book
		if err = json.Unmarshal([]byte(bookJSONString), &book); err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	SortBooksByRecency(books)
	return books, nil
}

// DeleteAll drops all book records at once.
func (rs *redisBookStorage) DeleteAll(ctx context.Context) error {
	return rs.client.Del(ctx, HLivros).Err()
}

// SortBooksByRecency orders books newest first. The creation timestamps
// use the fixed-width TimestampLayout so their lexical order matches
// their time order.
func SortBooksByRecency(books []Book) {
	sort.SliceStable(books, func(i, j int) bool {
		if books[i].CreatedAt != books[j].CreatedAt {
			return books[i].CreatedAt > books[j].CreatedAt
		}
		return books[i].Seq > books[j].Seq
	})
}
