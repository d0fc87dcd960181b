// Package importer moves a discovered corpus into the local SQLite
// index. Imports are idempotent: a source file whose hash is already
// recorded is skipped, and a changed file replaces its previous rows.
package importer

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"cophist/internal/core/db"
	"cophist/pkg/vscopilot"
)

// Importer handles importing sessions into the database.
type Importer struct {
	db    *db.DB
	runID string
}

// Result tallies one import run.
type Result struct {
	Imported int
	Skipped  int
	Failed   int
	Messages int
}

// New creates a new importer. Every importer carries a run id so the
// import log can group one run's entries together.
func New(database *db.DB) *Importer {
	return &Importer{db: database, runID: uuid.New().String()}
}

// RunID returns this import run's identifier.
func (i *Importer) RunID() string {
	return i.runID
}

// ImportCorpus imports every session in the corpus. A session that fails
// to import never aborts the rest of the run.
func (i *Importer) ImportCorpus(corpus *vscopilot.WorkspaceData, progress *ProgressReporter) (*Result, error) {
	result := &Result{}
	for idx := range corpus.ChatSessions {
		session := &corpus.ChatSessions[idx]
		imported, err := i.ImportSession(session)
		switch {
		case err != nil:
			result.Failed++
			i.recordImport(session.SourceFile(), "", 0, "failed", err.Error())
		case imported:
			result.Imported++
			result.Messages += len(session.Messages)
		default:
			result.Skipped++
		}
		if progress != nil {
			progress.Update(session.SessionID)
		}
	}
	if progress != nil {
		progress.Finish(result)
	}
	return result, nil
}

// ImportSession imports one session. Returns false when the source file
// is unchanged since a previous successful import.
func (i *Importer) ImportSession(session *vscopilot.ChatSession) (bool, error) {
	sourceFile := session.SourceFile()
	if sourceFile == "" {
		return false, fmt.Errorf("session %s has no source file", session.SessionID)
	}

	hash, err := computeFileHash(sourceFile)
	if err != nil {
		return false, fmt.Errorf("failed to hash file: %w", err)
	}

	var exists bool
	err = i.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM import_log WHERE file_hash = ? AND status = 'success')",
		hash,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check import log: %w", err)
	}
	if exists {
		return false, nil
	}

	tx, err := i.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// A re-import of a changed file replaces the stale rows.
	if err := i.db.DeleteSessionBySource(tx, sourceFile); err != nil {
		return false, fmt.Errorf("failed to clear previous import: %w", err)
	}

	sessionType, _ := session.Metadata["type"].(string)
	title, _ := session.Metadata["custom_title"].(string)

	res, err := tx.Exec(`
		INSERT INTO sessions (
			session_id, agent, workspace, session_type, custom_title,
			source_file, created_at, message_count, file_hash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		session.SessionID,
		session.Agent,
		session.Workspace,
		sessionType,
		title,
		sourceFile,
		session.Timestamp,
		len(session.Messages),
		hash,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert session: %w", err)
	}

	sessionDBID, err := res.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("failed to get session ID: %w", err)
	}

	for seq, msg := range session.Messages {
		metadata := ""
		if len(msg.Metadata) > 0 {
			if data, err := json.Marshal(msg.Metadata); err == nil {
				metadata = string(data)
			}
		}
		_, err := tx.Exec(`
			INSERT INTO messages (
				message_id, session_id, role, content, timestamp, sequence, metadata
			) VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			msg.ID,
			sessionDBID,
			string(msg.Role),
			msg.Content,
			msg.Timestamp,
			seq,
			metadata,
		)
		if err != nil {
			return false, fmt.Errorf("failed to insert message %d: %w", seq, err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO import_log (run_id, file_path, file_hash, messages_imported, status)
		VALUES (?, ?, ?, ?, 'success')
	`, i.runID, sourceFile, hash, len(session.Messages))
	if err != nil {
		return false, fmt.Errorf("failed to record import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit: %w", err)
	}
	return true, nil
}

func (i *Importer) recordImport(filePath, hash string, messages int, status, errMsg string) {
	_, _ = i.db.Exec(`
		INSERT INTO import_log (run_id, file_path, file_hash, messages_imported, status, error_message)
		VALUES (?, ?, ?, ?, ?, ?)
	`, i.runID, filePath, hash, messages, status, errMsg)
}

func computeFileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = file.Close()
	}()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
