package reference

import (
	"sync"
	"time"

	"github.com/bluele/gcache"
)

// Store keeps parsed tables between refresh cycles and reparses only when the
// files on disk change.
type Store struct {
	dir string

	mu      sync.Mutex
	version time.Time
	cache   gcache.Cache
}

func NewStore(dir string) *Store {
	store := &Store{dir: dir}
	store.cache = gcache.New(1).
		LRU().
		LoaderFunc(func(key interface{}) (interface{}, error) {
			return LoadTables(key.(string))
		}).
		Build()
	return store
}

func (store *Store) Dir() string {
	return store.dir
}

func (store *Store) Tables() (*Tables, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	version, err := LocalModTime(store.dir)
	if err != nil {
		store.cache.Remove(store.dir)
		return nil, err
	}

	if !version.Equal(store.version) {
		store.cache.Remove(store.dir)
		store.version = version
	}

	value, err := store.cache.Get(store.dir)
	if err != nil {
		return nil, err
	}
	return value.(*Tables), nil
}

func (store *Store) Invalidate() {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.cache.Remove(store.dir)
	store.version = time.Time{}
}
