package main

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Remote folders under which the two kinds of assets are filed.
const (
	CoverAssetsFolder = "livros/capas"
	EpubAssetsFolder  = "livros/epubs"
)

type BookServiceProvider interface {
	Create(ctx context.Context, nb NewBook) (Book, error)
	GetOne(ctx context.Context, id string) (Book, error)
	Delete(ctx context.Context, id string) error
	Update(ctx context.Context, id string, update BookUpdate) (Book, error)
	GetAll(ctx context.Context) ([]Book, error)
	DeleteAll(ctx context.Context) error
}

// BookService owns the asset lifecycle: it is the only component which
// talks to both the object storage and the metadata store, so a record
// can never exist without its two assets having been uploaded first.
type BookService struct {
	logger  *zap.Logger
	config  *Config
	clock   Clocker
	ids     UIDHandler
	storage BookStorage
	assets  AssetStorage
	queue   Queuer
}

func NewBookService(logger *zap.Logger, config *Config, clock Clocker, ids UIDHandler, storage BookStorage, assets AssetStorage, queue Queuer) BookServiceProvider {
	return &BookService{
		logger:  logger,
		config:  config,
		clock:   clock,
		ids:     ids,
		storage: storage,
		assets:  assets,
		queue:   queue,
	}
}

// Create uploads the cover and the epub concurrently then inserts the
// metadata record. Either upload failing aborts the whole operation
// before any metadata write. When the record insert itself fails after
// both uploads went through, the freshly uploaded assets are removed
// best-effort so a failed creation does not leak remote objects.
func (bs *BookService) Create(ctx context.Context, nb NewBook) (Book, error) {
	var cover, epub Asset
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cover, err = bs.assets.Store(gCtx, nb.Cover, CoverAssetsFolder, AssetKindImage)
		return err
	})
	g.Go(func() error {
		var err error
		epub, err = bs.assets.Store(gCtx, nb.Epub, EpubAssetsFolder, AssetKindRaw)
		return err
	})
	if err := g.Wait(); err != nil {
		bs.removeAsset(ctx, cover.ID, AssetKindImage)
		bs.removeAsset(ctx, epub.ID, AssetKindRaw)
		return Book{}, err
	}

	now := bs.clock.Now().UTC().Format(TimestampLayout)
	book := Book{
		ID:           bs.ids.Generate(BookIDPrefix),
		BookName:     nb.BookName,
		AuthorName:   nb.AuthorName,
		CoverURL:     cover.URL,
		CoverAssetID: cover.ID,
		EpubURL:      epub.URL,
		EpubAssetID:  epub.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := bs.storage.Add(ctx, book.ID, book)
	if err != nil {
		bs.removeAsset(ctx, cover.ID, AssetKindImage)
		bs.removeAsset(ctx, epub.ID, AssetKindRaw)
		return Book{}, err
	}

	if err := bs.queue.Push(ctx, CreateQueue, created); err != nil {
		bs.logger.Error("service: failed to push book to queue", zap.String("qid", CreateQueue), zap.Error(err))
	}
	return created, nil
}

func (bs *BookService) GetOne(ctx context.Context, id string) (Book, error) {
	book, err := bs.storage.GetOne(ctx, id)
	return book, err
}

// Delete removes the two remote assets then the metadata record. Asset
// removal failures are logged and swallowed: the record delete proceeds
// anyway, otherwise a broken remote asset would make the record stuck
// forever.
func (bs *BookService) Delete(ctx context.Context, id string) error {
	book, err := bs.storage.GetOne(ctx, id)
	if err != nil {
		return err
	}

	bs.removeAsset(ctx, book.CoverAssetID, AssetKindImage)
	bs.removeAsset(ctx, book.EpubAssetID, AssetKindRaw)

	if err := bs.storage.Delete(ctx, id); err != nil {
		return err
	}

	if err := bs.queue.Push(ctx, DeleteQueue, Book{ID: id}); err != nil {
		bs.logger.Error("service: failed to push to queue", zap.String("qid", DeleteQueue), zap.Error(err))
	}
	return nil
}

// Update only touches the two text fields. The asset URLs and ids of the
// stored record are kept as such, an edit can never alter them.
func (bs *BookService) Update(ctx context.Context, id string, update BookUpdate) (Book, error) {
	book, err := bs.storage.GetOne(ctx, id)
	if err != nil {
		return book, err
	}

	book.BookName = update.BookName
	book.AuthorName = update.AuthorName
	book.UpdatedAt = bs.clock.Now().UTC().Format(TimestampLayout)

	updated, err := bs.storage.Update(ctx, id, book)
	if err != nil {
		return updated, err
	}

	if err := bs.queue.Push(ctx, UpdateQueue, updated); err != nil {
		bs.logger.Error("service: failed to push to queue", zap.String("qid", UpdateQueue), zap.Error(err))
	}
	return updated, nil
}

func (bs *BookService) GetAll(ctx context.Context) ([]Book, error) {
	books, err := bs.storage.GetAll(ctx)
	return books, err
}

// DeleteAll flushes the whole catalog. Remote assets of the dropped
// records are left behind, this is a debug facility only.
func (bs *BookService) DeleteAll(ctx context.Context) error {
	return bs.storage.DeleteAll(ctx)
}

// removeAsset issues one best-effort remote deletion. A failure is
// logged and never bubbles up to the caller.
func (bs *BookService) removeAsset(ctx context.Context, id string, kind AssetKind) {
	if len(id) == 0 {
		return
	}
	if err := bs.assets.Remove(ctx, id, kind); err != nil {
		bs.logger.Warn("service: failed to remove remote asset",
			zap.String("asset.id", id),
			zap.String("asset.kind", string(kind)),
			zap.Error(err),
		)
	}
}
