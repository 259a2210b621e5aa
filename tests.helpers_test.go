package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// TestValidateCreateBookRequest ensures every required field of a
// creation payload is checked.
func TestValidateCreateBookRequest(t *testing.T) {
	valid := NewBook{
		BookName:   "Test book title",
		AuthorName: "Jerome Amon",
		Cover:      []byte("png"),
		Epub:       []byte("epub"),
	}

	testCases := []struct {
		name     string
		mutate   func(nb *NewBook)
		expected string
	}{
		{"valid payload", func(nb *NewBook) {}, ""},
		{"missing book name", func(nb *NewBook) { nb.BookName = "" }, "bookName is required"},
		{"missing author name", func(nb *NewBook) { nb.AuthorName = "" }, "authorName is required"},
		{"missing cover", func(nb *NewBook) { nb.Cover = nil }, "cover is required"},
		{"missing epub", func(nb *NewBook) { nb.Epub = nil }, "epub is required"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			nb := valid
			tc.mutate(&nb)
			err := ValidateCreateBookRequest(&nb)
			if tc.expected == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tc.expected)
			}
		})
	}
}

// TestValidateUpdateBookRequest ensures both text fields of an edit
// payload are required.
func TestValidateUpdateBookRequest(t *testing.T) {
	assert.NoError(t, ValidateUpdateBookRequest(&BookUpdate{BookName: "t", AuthorName: "a"}))
	assert.EqualError(t, ValidateUpdateBookRequest(&BookUpdate{AuthorName: "a"}), "bookName is required")
	assert.EqualError(t, ValidateUpdateBookRequest(&BookUpdate{BookName: "t"}), "authorName is required")
}

// TestSortBooksByRecency ensures the newest record comes first and that
// records sharing a creation timestamp keep their insertion order.
func TestSortBooksByRecency(t *testing.T) {
	sameInstant := "2023-07-02T00:00:00.000000000Z"
	books := []Book{
		{ID: "b:alpha", CreatedAt: "2023-07-01T00:00:00.000000000Z", Seq: 1},
		{ID: "b:bravo", CreatedAt: sameInstant, Seq: 2},
		{ID: "b:charlie", CreatedAt: sameInstant, Seq: 3},
		{ID: "b:delta", CreatedAt: "2023-07-01T12:00:00.000000000Z", Seq: 4},
	}

	SortBooksByRecency(books)

	assert.Equal(t, "b:charlie", books[0].ID)
	assert.Equal(t, "b:bravo", books[1].ID)
	assert.Equal(t, "b:delta", books[2].ID)
	assert.Equal(t, "b:alpha", books[3].ID)
}

// TestIDsHandler ensures generated ids carry their prefix, validate
// back and produce distinct short suffixes.
func TestIDsHandler(t *testing.T) {
	ids := NewIDsHandler()

	id := ids.Generate(BookIDPrefix)
	assert.True(t, len(id) > 2)
	assert.Equal(t, "b:", id[:2])
	assert.True(t, ids.IsValid(id, BookIDPrefix))
	assert.False(t, ids.IsValid("whatever", BookIDPrefix))

	s1, s2 := ids.Suffix(), ids.Suffix()
	assert.Len(t, s1, 8)
	assert.NotEqual(t, s1, s2)
}

// TestAssetContentType ensures cover payloads get their real image type
// sniffed while raw payloads stay opaque octet streams.
func TestAssetContentType(t *testing.T) {
	pngHeader := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}
	assert.Equal(t, "image/png", AssetContentType(pngHeader, AssetKindImage))
	assert.Equal(t, "application/octet-stream", AssetContentType([]byte("anything"), AssetKindRaw))
	assert.Equal(t, "application/octet-stream", AssetContentType(pngHeader, AssetKindRaw))
}

// TestObjectKey ensures remote keys are filed under their folder with
// the kind, upload instant and random suffix parts.
func TestObjectKey(t *testing.T) {
	ms := &minioAssetStorage{
		logger: zap.NewNop(),
		clock:  NewMockClocker(),
		ids:    NewMockUIDHandler("abcd1234", true),
	}
	key := ms.ObjectKey("/livros/capas/", AssetKindImage)
	assert.Equal(t, "livros/capas/image-1688256000000-abcd1234", key)
}
