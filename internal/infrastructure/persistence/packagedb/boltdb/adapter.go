//go:build linux

// Package boltdb provides a BoltDB adapter for the package database: per
// package, its secured-slave pinning and its most recent fault record.
package boltdb

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/kodflow/livewidgetd/internal/domain/packagedb"
)

// Bucket names for organizing data.
var (
	bucketPinning = []byte("secured_slave_pinning")
	bucketFaults  = []byte("fault_records")
	bucketMeta    = []byte("metadata")
)

var keySchemaVersion = []byte("version")

const schemaVersion = 1

// faultRecord is the gob-encoded form stored in bucketFaults.
type faultRecord struct {
	Package   string
	Filename  string
	Funcname  string
	Timestamp time.Time
}

// Adapter implements packagedb.PackageDB using BoltDB.
type Adapter struct {
	db *bolt.DB
}

// New opens (creating if absent) a BoltDB-backed package database at
// path.
//
// Params:
//   - path: filesystem path to the database file
//
// Returns:
//   - *Adapter: an adapter ready to serve PackageDB calls
//   - error: any error opening the database or initializing its schema
func New(path string) (*Adapter, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open boltdb: %w", err)
	}

	adapter := &Adapter{db: db}
	if err := adapter.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return adapter, nil
}

func (a *Adapter) initSchema() error {
	return a.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketPinning, bucketFaults, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		meta := tx.Bucket(bucketMeta)
		if meta.Get(keySchemaVersion) == nil {
			return meta.Put(keySchemaVersion, []byte{schemaVersion})
		}
		return nil
	})
}

// FindBySecuredSlave looks up which package, if any, is pinned to run on
// the named secured slave.
//
// Params:
//   - ctx: cancellation for the lookup
//   - slaveName: the secured slave name to look up
//
// Returns:
//   - string: the pinned package name, if found
//   - bool: true if a pinning exists for slaveName
//   - error: any error performing the lookup
func (a *Adapter) FindBySecuredSlave(ctx context.Context, slaveName string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	var pkgname string
	var found bool
	err := a.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketPinning).Get([]byte(slaveName))
		if v == nil {
			return nil
		}
		found = true
		pkgname = string(v)
		return nil
	})
	return pkgname, found, err
}

// PinSecuredSlave records that pkgname is pinned to run on slaveName.
//
// Params:
//   - ctx: cancellation for the write
//   - pkgname: the package being pinned
//   - slaveName: the secured slave it is pinned to
//
// Returns:
//   - error: any error performing the write
func (a *Adapter) PinSecuredSlave(ctx context.Context, pkgname, slaveName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return a.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPinning).Put([]byte(slaveName), []byte(pkgname))
	})
}

// RecordFault stores rec as the most recent fault record for pkgname,
// keyed so a later lookup by package returns the latest entry.
//
// Params:
//   - ctx: cancellation for the write
//   - pkgname: the package the fault is attributed to
//   - rec: the fault details to record
//
// Returns:
//   - error: any error performing the write
func (a *Adapter) RecordFault(ctx context.Context, pkgname string, rec packagedb.FaultRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := encode(faultRecord{
		Package:   pkgname,
		Filename:  rec.Filename,
		Funcname:  rec.Funcname,
		Timestamp: rec.Timestamp,
	})
	if err != nil {
		return err
	}

	return a.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFaults).Put([]byte(pkgname), value)
	})
}

// LatestFault retrieves the most recently recorded fault for pkgname, if
// any. It is not part of the PackageDB port; the control-plane surface
// does not call it, and the adapter's tests use it to inspect committed
// state.
//
// Params:
//   - ctx: cancellation for the lookup
//   - pkgname: the package to look up
//
// Returns:
//   - packagedb.FaultRecord: the latest recorded fault
//   - bool: true if a fault record exists for pkgname
//   - error: any error performing the lookup
func (a *Adapter) LatestFault(ctx context.Context, pkgname string) (packagedb.FaultRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return packagedb.FaultRecord{}, false, err
	}

	var rec faultRecord
	var found bool
	err := a.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketFaults).Get([]byte(pkgname))
		if v == nil {
			return nil
		}
		found = true
		return decode(v, &rec)
	})
	if err != nil || !found {
		return packagedb.FaultRecord{}, found, err
	}
	return packagedb.FaultRecord{
		Package:   rec.Package,
		Filename:  rec.Filename,
		Funcname:  rec.Funcname,
		Timestamp: rec.Timestamp,
	}, true, nil
}

// Close closes the underlying database.
//
// Returns:
//   - error: any error closing the database
func (a *Adapter) Close() error {
	return a.db.Close()
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("gob encode: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
