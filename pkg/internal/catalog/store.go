package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yeisme/mediavault/pkg/internal/model"
)

// Store executes catalog operations against the partition tables. It owns the
// two-level layout: every partition table exists in the primary database and,
// when configured, is mirrored in the overflow database that absorbs writes
// once the primary is full.
//
// All fan-out across partitions and databases is sequential; operations keep
// no state between calls.
type Store struct {
	primary  *gorm.DB
	overflow *gorm.DB // nil when no overflow store is configured
}

// NewStore builds a Store over the primary catalog database and an optional
// overflow database.
func NewStore(primary, overflow *gorm.DB) *Store {
	return &Store{primary: primary, overflow: overflow}
}

// Migrate creates or updates every partition table in both databases.
func (s *Store) Migrate(ctx context.Context) error {
	for _, db := range s.databases() {
		for _, p := range Partitions() {
			if err := db.WithContext(ctx).Table(p.TableName()).AutoMigrate(&model.FileRecord{}); err != nil {
				return fmt.Errorf("migrate %s: %w", p.TableName(), err)
			}
		}
	}

	return nil
}

// databases returns the active databases, primary first. The order is part of
// the contract: lookups and scans prefer the primary copy.
func (s *Store) databases() []*gorm.DB {
	if s.overflow == nil {
		return []*gorm.DB{s.primary}
	}

	return []*gorm.DB{s.primary, s.overflow}
}

func (s *Store) table(ctx context.Context, db *gorm.DB, p Partition) *gorm.DB {
	return db.WithContext(ctx).Table(p.TableName())
}

// Insert writes a record into a partition and classifies the result. The
// write targets the primary database; when the primary rejects it for
// capacity, the same write is retried once against the overflow database.
// Duplicate detection is each database's own uniqueness constraint, never a
// pre-read, so a key that lives only in the overflow store does not block a
// primary write.
func (s *Store) Insert(ctx context.Context, p Partition, rec *model.FileRecord) (InsertOutcome, error) {
	err := s.table(ctx, s.primary, p).Create(rec).Error
	if err == nil {
		return Inserted, nil
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return Duplicate, nil
	}

	if !isCapacityError(err) {
		return Failed, err
	}

	if s.overflow == nil {
		return StoreFull, nil
	}

	oerr := s.table(ctx, s.overflow, p).Create(rec).Error
	if oerr == nil {
		return Inserted, nil
	}

	if errors.Is(oerr, gorm.ErrDuplicatedKey) {
		return Duplicate, nil
	}

	if isCapacityError(oerr) {
		return StoreFull, nil
	}

	return Failed, oerr
}

// Put inserts a record for the reorganizer, mapping the insert outcomes onto
// errors: a duplicate key is ErrTargetExists, a full store is an error.
func (s *Store) Put(ctx context.Context, p Partition, rec *model.FileRecord) error {
	outcome, err := s.Insert(ctx, p, rec)
	switch outcome {
	case Inserted:
		return nil
	case Duplicate:
		return ErrTargetExists
	case StoreFull:
		return fmt.Errorf("catalog: partition %s store full", p)
	default:
		return err
	}
}

// Exists reports whether a key is present in a partition, in either database.
func (s *Store) Exists(ctx context.Context, p Partition, key string) (bool, error) {
	for _, db := range s.databases() {
		exists, err := s.existsIn(ctx, db, p, key)
		if err != nil {
			return false, err
		}

		if exists {
			return true, nil
		}
	}

	return false, nil
}

// InOverflow reports whether a key's record lives in the overflow database.
// Always false when no overflow store is configured.
func (s *Store) InOverflow(ctx context.Context, p Partition, key string) (bool, error) {
	if s.overflow == nil {
		return false, nil
	}

	return s.existsIn(ctx, s.overflow, p, key)
}

func (s *Store) existsIn(ctx context.Context, db *gorm.DB, p Partition, key string) (bool, error) {
	var count int64
	if err := s.table(ctx, db, p).Where(map[string]any{"key": key}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check key in %s: %w", p.TableName(), err)
	}

	return count > 0, nil
}

// FindByKey returns the record for a key within one partition, consulting the
// primary database before the overflow database.
func (s *Store) FindByKey(ctx context.Context, p Partition, key string) (*model.FileRecord, error) {
	for _, db := range s.databases() {
		var rec model.FileRecord

		err := s.table(ctx, db, p).Where(map[string]any{"key": key}).Take(&rec).Error
		if err == nil {
			return &rec, nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find key in %s: %w", p.TableName(), err)
		}
	}

	return nil, ErrNotFound
}

// FindByKeyAny looks a key up across every partition in stable order and
// reports which partition held it.
func (s *Store) FindByKeyAny(ctx context.Context, key string) (*model.FileRecord, Partition, error) {
	for _, p := range Partitions() {
		rec, err := s.FindByKey(ctx, p, key)
		if err == nil {
			return rec, p, nil
		}

		if !errors.Is(err, ErrNotFound) {
			return nil, p, err
		}
	}

	return nil, PartitionPrimary, ErrNotFound
}

// ScanMatching returns the records in a partition satisfying the query, in
// store-native insertion order, primary database rows before overflow rows.
// language, when non-empty, keeps only records whose file name contains it
// as a case-insensitive substring, before any pagination happens.
func (s *Store) ScanMatching(ctx context.Context, p Partition, q Query, language string) ([]model.FileRecord, error) {
	var out []model.FileRecord

	lang := strings.ToLower(language)

	for _, db := range s.databases() {
		var rows []model.FileRecord
		if err := s.table(ctx, db, p).Order("added_at").Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("scan %s: %w", p.TableName(), err)
		}

		for i := range rows {
			if !q.Matches(&rows[i]) {
				continue
			}

			if lang != "" && !strings.Contains(strings.ToLower(rows[i].FileName), lang) {
				continue
			}

			out = append(out, rows[i])
		}
	}

	return out, nil
}

// CountMatching counts the records a query would return from one partition.
func (s *Store) CountMatching(ctx context.Context, p Partition, q Query, language string) (int, error) {
	recs, err := s.ScanMatching(ctx, p, q, language)
	if err != nil {
		return 0, err
	}

	return len(recs), nil
}

// Count returns the total number of records in a partition.
func (s *Store) Count(ctx context.Context, p Partition) (int64, error) {
	var total int64

	for _, db := range s.databases() {
		var count int64
		if err := s.table(ctx, db, p).Count(&count).Error; err != nil {
			return 0, fmt.Errorf("count %s: %w", p.TableName(), err)
		}

		total += count
	}

	return total, nil
}

// DeleteMatching removes every record in a partition satisfying the query and
// returns how many were deleted.
func (s *Store) DeleteMatching(ctx context.Context, p Partition, q Query) (int64, error) {
	var deleted int64

	for _, db := range s.databases() {
		tx := s.table(ctx, db, p).Order("added_at")

		var rows []model.FileRecord
		if err := tx.Find(&rows).Error; err != nil {
			return deleted, fmt.Errorf("scan %s: %w", p.TableName(), err)
		}

		keys := make([]string, 0, len(rows))

		for i := range rows {
			if q.Matches(&rows[i]) {
				keys = append(keys, rows[i].Key)
			}
		}

		if len(keys) == 0 {
			continue
		}

		res := s.table(ctx, db, p).Where(map[string]any{"key": keys}).Delete(&model.FileRecord{})
		if res.Error != nil {
			return deleted, fmt.Errorf("delete from %s: %w", p.TableName(), res.Error)
		}

		deleted += res.RowsAffected
	}

	return deleted, nil
}

// DeleteByKey removes one record from a partition. ErrNotFound when neither
// database held the key.
func (s *Store) DeleteByKey(ctx context.Context, p Partition, key string) error {
	var affected int64

	for _, db := range s.databases() {
		res := s.table(ctx, db, p).Where(map[string]any{"key": key}).Delete(&model.FileRecord{})
		if res.Error != nil {
			return fmt.Errorf("delete from %s: %w", p.TableName(), res.Error)
		}

		affected += res.RowsAffected
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// MovedFromKeys lists the keys in dst whose records were written there by a
// move out of src. The reconcile job uses this to find interrupted moves.
func (s *Store) MovedFromKeys(ctx context.Context, dst, src Partition) ([]string, error) {
	var keys []string

	for _, db := range s.databases() {
		var batch []string

		err := s.table(ctx, db, dst).
			Where("moved_from = ? AND moved_at IS NOT NULL", src.String()).
			Pluck("key", &batch).Error
		if err != nil {
			return nil, fmt.Errorf("list moved keys in %s: %w", dst.TableName(), err)
		}

		keys = append(keys, batch...)
	}

	return keys, nil
}

// capacityMarkers are driver message fragments that indicate the database
// rejected a write for capacity rather than correctness.
var capacityMarkers = []string{
	"database or disk is full",
	"no space left",
	"disk full",
	"could not extend",
	"quota exceeded",
	"file too large",
}

func isCapacityError(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range capacityMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}
