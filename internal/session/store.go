package session

import (
	"bytes"
	"encoding/gob"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/golang-cafe/hireboard/internal/user"
	"github.com/pkg/errors"
)

// ProfileStore keeps the signed in user's profile in process memory, keyed
// by session id, so most requests never hit the user details endpoint.
type ProfileStore struct {
	cache *bigcache.BigCache
}

func NewProfileStore(ttl time.Duration) (*ProfileStore, error) {
	cache, err := bigcache.NewBigCache(bigcache.Config{
		Shards:             64,
		LifeWindow:         ttl,
		CleanWindow:        time.Minute,
		MaxEntriesInWindow: 1024,
		MaxEntrySize:       1024,
		HardMaxCacheSize:   64,
		Verbose:            false,
		Logger:             bigcache.DefaultLogger(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to initialise profile store")
	}
	return &ProfileStore{cache: cache}, nil
}

func (s *ProfileStore) Get(id string) (user.Profile, bool) {
	b, err := s.cache.Get(id)
	if err != nil {
		return user.Profile{}, false
	}
	p := user.Profile{}
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&p); err != nil {
		return user.Profile{}, false
	}
	return p, true
}

func (s *ProfileStore) Set(id string, p user.Profile) error {
	buf := &bytes.Buffer{}
	if err := gob.NewEncoder(buf).Encode(p); err != nil {
		return errors.Wrap(err, "unable to encode profile")
	}
	return s.cache.Set(id, buf.Bytes())
}

func (s *ProfileStore) Delete(id string) error {
	err := s.cache.Delete(id)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil
	}
	return err
}

func (s *ProfileStore) Close() error {
	return s.cache.Close()
}
