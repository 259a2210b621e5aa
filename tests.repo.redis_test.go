package main

import (
	"context"
	"net"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startRedisDockerContainer(t *testing.T) (string, func()) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("Failed to start Dockertest: %+v", err)
	}

	err = pool.Client.Ping()
	if err != nil {
		t.Fatalf("Could not connect to Docker: %+v", err)
	}

	resource, err := pool.Run("redis", "7.0.10-alpine", nil)
	if err != nil {
		t.Fatalf("Failed to start redis: %+v", err)
	}

	// build address the container is listening on
	addr := net.JoinHostPort("localhost", resource.GetPort("6379/tcp"))

	// ensure to wait for the container to be ready
	err = pool.Retry(func() error {
		var e error
		client := redis.NewClient(&redis.Options{Addr: addr})
		defer client.Close()

		e = client.Ping(context.Background()).Err()
		return e
	})

	if err != nil {
		t.Fatalf("Failed to ping Redis: %+v", err)
	}

	destroyFunc := func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Failed to purge resource: %+v", err)
		}
	}

	return addr, destroyFunc
}

func TestRedisStore(t *testing.T) {
	addr, destroyFunc := startRedisDockerContainer(t)
	defer destroyFunc()
	rs := NewRedisBookStorage(zap.NewNop(), redis.NewClient(&redis.Options{Addr: addr}))
	testBook0ID, testBook1ID := "b:0", "b:1"
	testBook := Book{
		ID:           testBook0ID,
		BookName:     "Redis test book title",
		AuthorName:   "Jerome Amon",
		CoverURL:     "https://assets.test/livros/capas/image-0-abc",
		CoverAssetID: "livros/capas/image-0-abc",
		EpubURL:      "https://assets.test/livros/epubs/raw-0-abc",
		EpubAssetID:  "livros/epubs/raw-0-abc",
		CreatedAt:    "2023-07-01T20:19:10.760463200Z",
		UpdatedAt:    "2023-07-01T20:19:10.760463200Z",
	}

	t.Run("Add Book", func(t *testing.T) {
		// ensures inserting stamps the record with the sequence counter.
		book, err := rs.Add(context.Background(), testBook0ID, testBook)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), book.Seq)
		testBook.Seq = book.Seq
	})

	t.Run("Get Existent Book", func(t *testing.T) {
		// ensures we can fetch specific book.
		book, err := rs.GetOne(context.Background(), testBook0ID)
		assert.NoError(t, err)
		assert.Equal(t, testBook, book)
	})

	t.Run("Get NonExistent Book", func(t *testing.T) {
		// ensures fetching non-existent book fails.
		book, err := rs.GetOne(context.Background(), testBook1ID)
		assert.Equal(t, ErrBookNotFound, err)
		assert.Equal(t, Book{}, book)
	})

	t.Run("Update NonExistent Book", func(t *testing.T) {
		// ensures updating an unknown id reports not found without inserting.
		_, err := rs.Update(context.Background(), testBook1ID, testBook)
		assert.Equal(t, ErrBookNotFound, err)
		_, err = rs.GetOne(context.Background(), testBook1ID)
		assert.Equal(t, ErrBookNotFound, err)
	})

	t.Run("Update Existent Book", func(t *testing.T) {
		// ensures we can update an existent book record.
		testBook.AuthorName = "Another Author"
		book, err := rs.Update(context.Background(), testBook0ID, testBook)
		assert.NoError(t, err)
		assert.Equal(t, testBook, book)
		book, err = rs.GetOne(context.Background(), testBook0ID)
		assert.NoError(t, err)
		assert.Equal(t, testBook.AuthorName, book.AuthorName)
	})

	t.Run("Delete Existent Book", func(t *testing.T) {
		// ensures deleting existent book succeed.
		err := rs.Delete(context.Background(), testBook0ID)
		assert.NoError(t, err)
		book, err := rs.GetOne(context.Background(), testBook0ID)
		assert.Equal(t, ErrBookNotFound, err)
		assert.Equal(t, Book{}, book)
	})

	t.Run("Delete NonExistent Book", func(t *testing.T) {
		// ensures deleting non existent book returns an error.
		err := rs.Delete(context.Background(), testBook1ID)
		assert.Equal(t, ErrBookNotFound, err)
	})

	t.Run("Get All Books Ordering", func(t *testing.T) {
		// ensures the listing comes back newest first, with the insertion
		// counter breaking ties between identical creation timestamps.
		sameInstant := "2023-07-02T00:00:00.000000000Z"
		records := []Book{
			{ID: "b:alpha", CreatedAt: "2023-07-01T00:00:00.000000000Z"},
			{ID: "b:bravo", CreatedAt: sameInstant},
			{ID: "b:charlie", CreatedAt: sameInstant},
		}
		for _, b := range records {
			_, err := rs.Add(context.Background(), b.ID, b)
			require.NoError(t, err)
		}

		books, err := rs.GetAll(context.Background())
		assert.NoError(t, err)
		require.Len(t, books, 3)
		assert.Equal(t, "b:charlie", books[0].ID)
		assert.Equal(t, "b:bravo", books[1].ID)
		assert.Equal(t, "b:alpha", books[2].ID)
	})

	t.Run("Delete All Books", func(t *testing.T) {
		// ensures we can flush the whole catalog.
		err := rs.DeleteAll(context.Background())
		assert.NoError(t, err)
		books, err := rs.GetAll(context.Background())
		assert.NoError(t, err)
		assert.Empty(t, books)
	})
}
