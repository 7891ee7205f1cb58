// Package store persists generic-instantiation results and per-run
// diagnostic logs across a multi-file noctua run, grounded on the
// teacher's db/sqlite.go (gorm + sqlite) and models/models.go (gorm
// model + TableName conventions).
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Instantiation is a ledger entry recording that a given generic
// container, under a given set of bindings, produced a particular
// symbol name (spec §4.6, "instances are cached"). Within one run the
// unit.Arena's in-memory instCache is the actual cache — this table
// does not replace it and is never consulted to skip rebuilding a
// substituted type, since a fresh Arena always needs its own Type/Symbol
// ids. Its purpose is cross-run: it lets `noctua cache inspect` show
// which instantiations a fixture tree has produced over time.
type Instantiation struct {
	ID           uint      `gorm:"primaryKey"`
	ContainerID  int32     `gorm:"index:idx_instantiation_key,unique"`
	BindingsHash string    `gorm:"type:varchar(64);index:idx_instantiation_key,unique"`
	SymbolName   string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (Instantiation) TableName() string { return "generic_instantiations" }

// DiagnosticRecord is one diagnostic from a run, kept for `noctua cache
// inspect` (spec's supplemented feature, SPEC_FULL.md §13).
type DiagnosticRecord struct {
	ID        uint      `gorm:"primaryKey"`
	RunID     string    `gorm:"type:varchar(64);index"`
	Severity  string    `gorm:"type:varchar(20)"`
	Kind      string    `gorm:"type:varchar(40)"`
	File      string    `gorm:"type:varchar(255)"`
	Line      int
	Col       int
	Detail    string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (DiagnosticRecord) TableName() string { return "diagnostics" }

// Open connects to the sqlite database at path (creating its parent
// directory if needed) and runs migrations.
func Open(path string, debug bool) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	cfg := &gorm.Config{}
	if debug {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}

// Migrate runs the store's schema migrations.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Instantiation{}, &DiagnosticRecord{})
}

// Store wraps a *gorm.DB with the cache's read/write operations.
type Store struct {
	db *gorm.DB
}

// New wraps an already-open gorm handle.
func New(db *gorm.DB) *Store { return &Store{db: db} }

// Lookup returns the cached instantiation's symbol name, if any.
func (s *Store) Lookup(containerID int32, bindingsHash string) (string, bool) {
	var rec Instantiation
	err := s.db.Where("container_id = ? AND bindings_hash = ?", containerID, bindingsHash).First(&rec).Error
	if err != nil {
		return "", false
	}
	return rec.SymbolName, true
}

// Save records a new instantiation, ignoring a race where another
// process already cached the same key.
func (s *Store) Save(containerID int32, bindingsHash, symbolName string) error {
	rec := Instantiation{ContainerID: containerID, BindingsHash: bindingsHash, SymbolName: symbolName}
	err := s.db.Where("container_id = ? AND bindings_hash = ?", containerID, bindingsHash).FirstOrCreate(&rec).Error
	if err != nil {
		return fmt.Errorf("saving instantiation cache entry: %w", err)
	}
	return nil
}

// RecordDiagnostics persists one run's diagnostic log under runID.
func (s *Store) RecordDiagnostics(runID string, records []DiagnosticRecord) error {
	for i := range records {
		records[i].RunID = runID
	}
	if len(records) == 0 {
		return nil
	}
	if err := s.db.Create(&records).Error; err != nil {
		return fmt.Errorf("recording diagnostics for run %s: %w", runID, err)
	}
	return nil
}

// RunDiagnostics returns every diagnostic recorded under runID, for
// `noctua cache inspect`.
func (s *Store) RunDiagnostics(runID string) ([]DiagnosticRecord, error) {
	var records []DiagnosticRecord
	if err := s.db.Where("run_id = ?", runID).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("reading diagnostics for run %s: %w", runID, err)
	}
	return records, nil
}
