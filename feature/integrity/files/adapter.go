package files

import (
	"context"
	"fmt"
	"path"
	"strings"

	"audio-loader/core/cooked"
	"audio-loader/core/reconcile"
	"audio-loader/core/storage"

	"github.com/minio/minio-go/v7"
)

// Source lists the files a catalog declares, relative to the platform
// folder.
type Source interface {
	Files(ctx context.Context) (map[string]cooked.Kind, error)
}

// Family groups the kinds sharing one storage file format.
type Family struct {
	Name       string
	Kinds      []cooked.Kind
	Extensions []string
}

var (
	// SoundBanks covers bank files, the init bank included.
	SoundBanks = Family{
		Name:       "soundbanks",
		Kinds:      []cooked.Kind{cooked.KindSoundBank, cooked.KindInitBank},
		Extensions: []string{".bnk"},
	}
	// Media covers streamed media and external source files.
	Media = Family{
		Name:       "media",
		Kinds:      []cooked.Kind{cooked.KindMedia, cooked.KindExternalSource},
		Extensions: []string{".wem"},
	}
	// Families lists every family in report order.
	Families = []Family{SoundBanks, Media}
)

// FamilyByName returns the family called name.
func FamilyByName(name string) (Family, error) {
	for _, f := range Families {
		if strings.EqualFold(f.Name, name) {
			return f, nil
		}
	}
	return Family{}, fmt.Errorf("unknown file family %q", name)
}

func (f Family) hasKind(k cooked.Kind) bool {
	for _, kind := range f.Kinds {
		if kind == k {
			return true
		}
	}
	return false
}

func (f Family) hasExtension(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	for _, e := range f.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Item is the catalog side of one file.
type Item struct {
	Path string
	Kind cooked.Kind
}

// Adapter reconciles one family of cooked files.
type Adapter struct {
	family Family
	source Source
	client storage.Client
	bucket string
	prefix string
}

// NewAdapter creates an adapter. client, bucket and prefix are used by the
// mutations.
func NewAdapter(family Family, source Source, client storage.Client, bucket, prefix string) *Adapter {
	return &Adapter{
		family: family,
		source: source,
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Name returns the family name.
func (a *Adapter) Name() string {
	return a.family.Name
}

// LoadCatalogIndex returns the catalog files of the family.
func (a *Adapter) LoadCatalogIndex(ctx context.Context) (map[string]reconcile.CatalogItem, error) {
	all, err := a.source.Files(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog files: %w", err)
	}

	index := make(map[string]reconcile.CatalogItem)
	for p, kind := range all {
		if a.family.hasKind(kind) {
			index[p] = Item{Path: p, Kind: kind}
		}
	}
	return index, nil
}

// LoadStorageSet lists the family's objects under prefix.
func (a *Adapter) LoadStorageSet(ctx context.Context, client storage.Client, bucket, prefix string) (map[string]struct{}, error) {
	set := make(map[string]struct{})

	opts := minio.ListObjectsOptions{
		Prefix:    folder(prefix),
		Recursive: true,
	}
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", obj.Err)
		}
		if key, ok := a.ExtractStorageKey(obj.Key, prefix); ok {
			set[key] = struct{}{}
		}
	}
	return set, nil
}

// ExtractStorageKey strips prefix from objectKey and keeps the family's
// extensions only.
func (a *Adapter) ExtractStorageKey(objectKey, prefix string) (string, bool) {
	p := folder(prefix)
	if !strings.HasPrefix(objectKey, p) {
		return "", false
	}
	key := strings.TrimPrefix(objectKey, p)
	if key == "" || strings.HasSuffix(key, "/") {
		return "", false
	}
	if !a.family.hasExtension(key) {
		return "", false
	}
	return key, true
}

// ResolveName returns the file name without its extension.
func (a *Adapter) ResolveName(key string, item reconcile.CatalogItem) string {
	base := path.Base(key)
	return strings.TrimSuffix(base, path.Ext(base))
}

// GetMetadata returns the kind owning the file.
func (a *Adapter) GetMetadata(item reconcile.CatalogItem) map[string]string {
	it, ok := item.(Item)
	if !ok {
		return nil
	}
	return map[string]string{"kind": it.Kind.String()}
}

// QueryCatalog finds a file by path or by name.
func (a *Adapter) QueryCatalog(ctx context.Context, query reconcile.Query) (string, reconcile.CatalogItem, error) {
	index, err := a.LoadCatalogIndex(ctx)
	if err != nil {
		return "", nil, err
	}
	if item, ok := index[query.ID]; ok {
		return query.ID, item, nil
	}
	if query.Name != "" {
		for key, item := range index {
			if a.ResolveName(key, item) == query.Name {
				return key, item, nil
			}
		}
	}
	return "", nil, nil
}

// CheckStorage reports whether the object for key exists.
func (a *Adapter) CheckStorage(ctx context.Context, client storage.Client, bucket, prefix, key string) (bool, error) {
	_, err := client.StatObject(ctx, bucket, path.Join(prefix, key), minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if storage.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

func folder(prefix string) string {
	if prefix == "" || strings.HasSuffix(prefix, "/") {
		return prefix
	}
	return prefix + "/"
}
