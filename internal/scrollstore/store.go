// Package scrollstore holds the sidebar's one-slot, session-scoped scroll offset.
//
// A value is written when the user follows a link in the sidebar and read exactly once
// by the next page's sidebar: Take both returns and removes it.
package scrollstore

import (
	"context"
	"fmt"
	"time"
)

// Offset is a scroll position in pixels from the top of the sidebar.
type Offset float64

// Store is the get-and-clear / set persistence contract.
type Store interface {
	// Take returns the offset saved under key and removes it. ok is false when
	// nothing is stored or the value expired.
	Take(ctx context.Context, key string) (v Offset, ok bool, err error)
	// Put saves v under key, replacing any previous value.
	Put(ctx context.Context, key string, v Offset) error
}

// DefaultKey is the fixed key the sidebar uses.
const DefaultKey = "sidebar-scroll"

// SessionKey namespaces key by a browser session ID. An empty session uses key as is.
func SessionKey(session, key string) string {
	if session == "" {
		return key
	}
	return session + "/" + key
}

// Driver names a Store backend.
type Driver string

const (
	DriverMemory Driver = "memory"
	DriverSQLite Driver = "sqlite"
	DriverRedis  Driver = "redis"
)

// Options configure Open.
type Options struct {
	Driver   Driver
	Path     string        // sqlite database file
	RedisURL string        // redis://[:password@]host:port/db
	TTL      time.Duration // how long an unread offset survives; zero keeps it forever
}

// Open constructs the configured backend. The returned close function releases it.
func Open(opts Options) (Store, func() error, error) {
	switch opts.Driver {
	case DriverMemory, "":
		return NewMemory(opts.TTL), func() error { return nil }, nil
	case DriverSQLite:
		s, err := OpenSQLite(opts.Path, opts.TTL)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case DriverRedis:
		s, err := NewRedisFromURL(opts.RedisURL, opts.TTL)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown scroll store driver %q", opts.Driver)
	}
}
