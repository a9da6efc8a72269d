// Package redisstore persists template markup in Redis and loads it as a
// tree.Document that template.FromStore and include directives can use.
//
// Each template is stored as a plain string under "<prefix><id>". Loading
// wraps every entry in a <template id="<id>"> element.
//
// Usage:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	store := redisstore.New(client, "template:", logger)
//
//	if err := store.Save(ctx, "card", `<p template-html="name"></p>`); err != nil {
//	    return err
//	}
//	doc, err := store.Load(ctx)
//	tmpl, err := template.FromStore(doc, "card")
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aescanero/dago-template/pkg/tree"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultPrefix is the key prefix used when none is given
const DefaultPrefix = "template:"

// ErrNotFound is returned by Get for an unknown id
var ErrNotFound = errors.New("template not found")

// Store reads and writes template markup in Redis
type Store struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// New creates a store over client. An empty prefix uses DefaultPrefix.
func New(client *redis.Client, prefix string, logger *zap.Logger) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

// Save stores markup under id, replacing any previous value
func (s *Store) Save(ctx context.Context, id, markup string) error {
	if id == "" {
		return fmt.Errorf("template id is required")
	}
	if _, err := tree.ParseNodes(markup); err != nil {
		return fmt.Errorf("failed to save template %s: %w", id, err)
	}

	if err := s.client.Set(ctx, s.key(id), markup, 0).Err(); err != nil {
		return fmt.Errorf("failed to save template %s: %w", id, err)
	}

	s.logger.Debug("template saved",
		zap.String("id", id),
		zap.Int("bytes", len(markup)),
	)
	return nil
}

// Get returns the markup stored under id
func (s *Store) Get(ctx context.Context, id string) (string, error) {
	markup, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return "", fmt.Errorf("failed to load template %s: %w", id, err)
	}
	return markup, nil
}

// Delete removes the template stored under id
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete template %s: %w", id, err)
	}
	return nil
}

// Exists checks if a template is stored under id
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return n > 0, nil
}

// List returns the stored template ids in sorted order
func (s *Store) List(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Load reads every stored template into a document indexed by id
func (s *Store) Load(ctx context.Context) (*tree.Document, error) {
	ids, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]string, len(ids))
	if len(ids) > 0 {
		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = s.key(id)
		}

		values, err := s.client.MGet(ctx, keys...).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to load templates: %w", err)
		}
		for i, v := range values {
			// deleted between SCAN and MGET
			markup, ok := v.(string)
			if !ok {
				continue
			}
			entries[ids[i]] = markup
		}
	}

	doc, err := BuildDocument(entries)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("templates loaded", zap.Int("count", doc.Len()))
	return doc, nil
}

// BuildDocument wraps each markup entry in a <template> element carrying its
// id and indexes the result. Entries are placed in id order.
func BuildDocument(entries map[string]string) (*tree.Document, error) {
	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	root := tree.NewFragment()
	for _, id := range ids {
		nodes, err := tree.ParseNodes(entries[id])
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", id, err)
		}
		tpl := tree.NewElement(tree.TemplateTag, tree.Attr{Key: "id", Val: id})
		tpl.AppendChild(nodes...)
		root.AppendChild(tpl)
	}
	return tree.NewDocument(root), nil
}
