package store

import (
	"errors"
	"time"

	"github.com/gocql/gocql"
)

// ErrNotFound marks lookups for rows that do not exist. Seen receipts
// for vanished messages treat it as benign.
var ErrNotFound = errors.New("store: not found")

type Session struct {
	*gocql.Session
}

func NewSession(hosts []string, keyspace string) (*Session, error) {
	cluster := gocql.NewCluster(hosts...)
	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = 5 * time.Second
	cluster.ConnectTimeout = 5 * time.Second

	cluster.RetryPolicy = &gocql.ExponentialBackoffRetryPolicy{
		NumRetries: 3,
		Min:        100 * time.Millisecond,
		Max:        1 * time.Second,
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, err
	}

	return &Session{Session: session}, nil
}
