package main

import "context"

// TimestampLayout is the fixed-width layout used for CreatedAt and
// UpdatedAt values. Unlike RFC3339Nano it never trims trailing zeros,
// so timestamps compare correctly as plain strings.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Book represents one catalog record. The cover and epub assets are
// uploaded once at creation time; only BookName and AuthorName can be
// changed afterwards. Seq is a monotonic insertion counter assigned by
// the storage and used to keep the recency ordering stable when two
// records share the same creation timestamp.
type Book struct {
	ID           string `json:"id"`
	BookName     string `json:"bookName"`
	AuthorName   string `json:"authorName"`
	CoverURL     string `json:"coverUrl"`
	CoverAssetID string `json:"coverAssetId"`
	EpubURL      string `json:"epubUrl"`
	EpubAssetID  string `json:"epubAssetId"`
	Seq          int64  `json:"seq"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// NewBook carries the payload of a book creation request: the two text
// fields plus the raw content of both uploaded files.
type NewBook struct {
	BookName   string
	AuthorName string
	Cover      []byte
	Epub       []byte
}

// BookUpdate carries the two mutable fields of an edit request.
type BookUpdate struct {
	BookName   string `json:"bookName"`
	AuthorName string `json:"authorName"`
}

// BookStorage defines possible operations on book records.
type BookStorage interface {
	Add(ctx context.Context, id string, book Book) (Book, error)
	GetOne(ctx context.Context, id string) (Book, error)
	Delete(ctx context.Context, id string) error
	Update(ctx context.Context, id string, book Book) (Book, error)
	GetAll(ctx context.Context) ([]Book, error)
	DeleteAll(ctx context.Context) error
}

// AssetKind tells the asset store how to treat an uploaded payload.
// Raw payloads must never go through any content transformation.
type AssetKind string

const (
	AssetKindImage AssetKind = "image"
	AssetKindRaw   AssetKind = "raw"
)

// Asset is the outcome of a successful upload: the public URL under
// which the file is reachable and the opaque identifier needed to
// delete it later.
type Asset struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

// AssetStorage defines operations against the remote object storage.
// Store must either fully succeed or leave nothing the caller has to
// track. Remove is best-effort by contract: callers log its failure
// and carry on, so a record never becomes undeletable because of a
// stale remote asset.
type AssetStorage interface {
	Store(ctx context.Context, data []byte, folder string, kind AssetKind) (Asset, error)
	Remove(ctx context.Context, id string, kind AssetKind) error
}
