package stores

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/brandonszeto/todo/internal/data/db"
)

var corruptCodes = []int{
	sqlite3.SQLITE_CORRUPT,
	sqlite3.SQLITE_NOTADB,
}

var corruptMessages = []string{
	"database disk image is malformed",
	"file is not a database",
}

// IsCorruptionError reports whether err means the cache file is unreadable.
func IsCorruptionError(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && slices.Contains(corruptCodes, sqliteErr.Code()&0xff) {
		return true
	}

	msg := err.Error()
	return slices.ContainsFunc(corruptMessages, func(m string) bool {
		return strings.Contains(msg, m)
	})
}

// IsNotFoundError reports whether err means a key is missing or expired.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// RecoverFromCorruption renames the cache database and its WAL and SHM
// companions to <name>.corrupt.<timestamp> so the next Open starts empty.
// Missing files are skipped.
func RecoverFromCorruption(dataDir string, now time.Time) error {
	dbPath := db.Path(dataDir)
	backup := fmt.Sprintf("%s.corrupt.%s", dbPath, now.Format("20060102-150405"))

	for _, suffix := range []string{"", "-wal", "-shm"} {
		err := os.Rename(dbPath+suffix, backup+suffix)
		if err == nil || errors.Is(err, os.ErrNotExist) {
			continue
		}
		// A journal that cannot be moved must not be replayed into the new file.
		if suffix != "" && os.Remove(dbPath+suffix) == nil {
			continue
		}
		return fmt.Errorf("move aside %s: %w", dbPath+suffix, err)
	}

	return nil
}
