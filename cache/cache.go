// Package cache stores decoded telemetry series on disk, keyed by the
// fingerprint of the source file, so rerunning an overlay skips FIT decoding.
//
// Entries are series blobs (see package blob) kept in a Badger key-value
// store. Only decoded telemetry is cached; alignment results never are.
package cache

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/arloliu/fitlay/blob"
	"github.com/arloliu/fitlay/format"
	"github.com/arloliu/fitlay/internal/hash"
	"github.com/arloliu/fitlay/internal/options"
	"github.com/arloliu/fitlay/telemetry"
)

const keyPrefix = "series/"

type config struct {
	inMemory    bool
	ttl         time.Duration
	compression format.CompressionType
	logger      *slog.Logger
}

// Option configures a Cache.
type Option = options.Option[*config]

// WithInMemory keeps the store in memory; the directory is ignored.
func WithInMemory() Option {
	return options.NoError(func(c *config) {
		c.inMemory = true
	})
}

// WithTTL expires entries after d. Zero keeps them forever.
func WithTTL(d time.Duration) Option {
	return options.New(func(c *config) error {
		if d < 0 {
			return errors.New("cache ttl must not be negative")
		}
		c.ttl = d

		return nil
	})
}

// WithCompression sets the blob compression of stored entries. Default zstd.
func WithCompression(comp format.CompressionType) Option {
	return options.New(func(c *config) error {
		if !comp.Valid() {
			return fmt.Errorf("invalid cache compression %s", comp)
		}
		c.compression = comp

		return nil
	})
}

// WithLogger sets the logger. Nil keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// Cache is a persistent series cache. It is safe for concurrent use.
type Cache struct {
	db      *badger.DB
	encoder *blob.SeriesEncoder
	cfg     config
}

// Open opens or creates the cache in dir.
func Open(dir string, opts ...Option) (*Cache, error) {
	cfg := config{compression: format.CompressionZstd, logger: slog.Default()}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	encoder, err := blob.NewSeriesEncoder(blob.WithCompression(cfg.compression))
	if err != nil {
		return nil, err
	}

	bopts := badger.DefaultOptions(dir)
	if cfg.inMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else if dir == "" {
		return nil, errors.New("cache directory is required")
	}
	bopts = bopts.WithLogger(nil)

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	cfg.logger.Debug("cache: opened", "dir", dir, "in_memory", cfg.inMemory, "ttl", cfg.ttl)

	return &Cache{db: db, encoder: encoder, cfg: cfg}, nil
}

func key(fingerprint uint64) []byte {
	return []byte(keyPrefix + hash.Hex(fingerprint))
}

// Get returns the series stored under fingerprint. A missing or expired
// entry reports false. Entries that no longer decode are removed and
// reported as missing.
func (c *Cache) Get(fingerprint uint64) (*telemetry.Series, bool, error) {
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(fingerprint))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)

		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", hash.Hex(fingerprint), err)
	}

	series, err := blob.Decode(data)
	if err != nil {
		c.cfg.logger.Warn("cache: dropping undecodable entry",
			"fingerprint", hash.Hex(fingerprint),
			"error", err,
		)
		if derr := c.Delete(fingerprint); derr != nil {
			return nil, false, derr
		}

		return nil, false, nil
	}

	return series, true, nil
}

// Put stores series under fingerprint, replacing any previous entry.
func (c *Cache) Put(fingerprint uint64, series *telemetry.Series) error {
	data, err := c.encoder.Encode(series)
	if err != nil {
		return fmt.Errorf("cache put %s: %w", hash.Hex(fingerprint), err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key(fingerprint), data)
		if c.cfg.ttl > 0 {
			entry = entry.WithTTL(c.cfg.ttl)
		}

		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("cache put %s: %w", hash.Hex(fingerprint), err)
	}

	c.cfg.logger.Debug("cache: stored series",
		"fingerprint", hash.Hex(fingerprint),
		"samples", series.Len(),
		"bytes", len(data),
	)

	return nil
}

// Delete removes the entry for fingerprint. Deleting a missing entry is not
// an error.
func (c *Cache) Delete(fingerprint uint64) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(fingerprint))
	})
}

// Len returns the number of live entries.
func (c *Cache) Len() (int, error) {
	n := 0
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}

		return nil
	})

	return n, err
}

// Close closes the store.
func (c *Cache) Close() error {
	return c.db.Close()
}
