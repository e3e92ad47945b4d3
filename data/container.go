// Package data provides thread-safe storage for the polypill API: the
// current catalog, swapped atomically on reload, and the in-memory session
// store holding each visitor's regimen.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/polypill-api/catalog"
	"github.com/giygas/polypill-api/interfaces"
	"github.com/giygas/polypill-api/logging"
)

// Compile-time check to ensure DataContainer implements CatalogStore
var _ interfaces.CatalogStore = (*DataContainer)(nil)

type reloadError struct {
	err error
}

// DataContainer holds the catalog behind atomic values for zero-downtime swaps
type DataContainer struct {
	catalog         atomic.Pointer[catalog.Catalog]
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
	reloadErr       atomic.Value // reloadError
}

// NewDataContainer creates a container with no catalog loaded yet
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.lastUpdated.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{})
	dc.reloadErr.Store(reloadError{})
	return dc
}

// GetCatalog returns the current catalog, or an empty one before the first load
func (dc *DataContainer) GetCatalog() *catalog.Catalog {
	if c := dc.catalog.Load(); c != nil {
		return c
	}

	logging.Warn("Catalog requested before it was loaded")
	return catalog.MustNew(nil, nil, nil)
}

// UpdateCatalog atomically replaces the catalog
func (dc *DataContainer) UpdateCatalog(c *catalog.Catalog) {
	if c == nil {
		logging.Warn("Ignoring nil catalog update")
		return
	}
	dc.catalog.Store(c)
	dc.lastUpdated.Store(time.Now())
}

// GetLastUpdated returns the timestamp of the last catalog swap
func (dc *DataContainer) GetLastUpdated() time.Time {
	if v, ok := dc.lastUpdated.Load().(time.Time); ok {
		return v
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating reports whether a reload is in progress
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v, ok := dc.serverStartTime.Load().(time.Time); ok {
		return v
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// BeginUpdate marks the start of a reload.
// Returns false if another reload is already running.
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a reload
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}

// SetReloadError records the outcome of the last reload; nil clears it
func (dc *DataContainer) SetReloadError(err error) {
	dc.reloadErr.Store(reloadError{err: err})
}

// GetReloadError returns the error of the last failed reload, if any
func (dc *DataContainer) GetReloadError() error {
	if v, ok := dc.reloadErr.Load().(reloadError); ok {
		return v.err
	}
	return nil
}
