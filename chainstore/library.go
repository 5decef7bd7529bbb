package chainstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/birdayz/sigchain/graph"
	"github.com/birdayz/sigchain/serde"
)

// Library saves and loads graph documents on top of a Store.
type Library struct {
	store Store
	serde serde.Serde[graph.Document]
	log   *slog.Logger
}

// LibraryOption configures a Library.
type LibraryOption func(*Library)

// WithLog sets the logger.
var WithLog = func(log *slog.Logger) LibraryOption {
	return func(l *Library) {
		l.log = log
	}
}

// WithSerde replaces the document encoding. The default is indented JSON.
var WithSerde = func(s serde.Serde[graph.Document]) LibraryOption {
	return func(l *Library) {
		l.serde = s
	}
}

func NewLibrary(store Store, opts ...LibraryOption) *Library {
	l := &Library{
		store: store,
		serde: serde.IndentedJSON[graph.Document](),
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Library) Save(ctx context.Context, name string, doc graph.Document) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	data, err := l.serde.Serializer(doc)
	if err != nil {
		return fmt.Errorf("encode chain %s: %w", name, err)
	}
	if err := l.store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("save chain %s: %w", name, err)
	}
	l.log.Info("Chain saved", "name", name, "nodes", len(doc.Nodes), "bytes", len(data))
	return nil
}

func (l *Library) Load(ctx context.Context, name string) (graph.Document, error) {
	data, err := l.store.Get(ctx, name)
	if err != nil {
		return graph.Document{}, err
	}
	doc, err := l.serde.Deserializer(data)
	if err != nil {
		return graph.Document{}, fmt.Errorf("decode chain %s: %w", name, err)
	}
	l.log.Debug("Chain loaded", "name", name, "nodes", len(doc.Nodes))
	return doc, nil
}

func (l *Library) List(ctx context.Context) ([]string, error) {
	return l.store.List(ctx)
}

func (l *Library) Delete(ctx context.Context, name string) error {
	return l.store.Delete(ctx, name)
}

func (l *Library) Close() error {
	return l.store.Close()
}
