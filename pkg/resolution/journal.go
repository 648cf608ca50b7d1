package resolution

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/snappy"

	"github.com/tinkermonkey/specaudit/pkg/model"
)

// JournalEntry is one disposition record in the session journal.
type JournalEntry struct {
	Seq         uint64            `json:"seq"`
	SessionID   string            `json:"sessionId"`
	ItemID      string            `json:"itemId"`
	Kind        model.FindingKind `json:"kind"`
	Action      model.ActionKind  `json:"action"`
	Disposition model.Disposition `json:"disposition"`
	Reasoning   string            `json:"reasoning"`
	Files       []string          `json:"files,omitempty"`
	Timestamp   int64             `json:"timestamp"`
}

// Journal is the append-only session log. Entries are snappy-compressed and
// CRC-checked, framed as [seq][length][crc][payload], so a truncated tail
// from a crashed session is detected and dropped on recovery instead of
// corrupting the history.
type Journal struct {
	file    *os.File
	writer  *bufio.Writer
	lastSeq uint64
	mu      sync.Mutex
}

const journalFileName = "resolution.journal"

// OpenJournal opens or creates the journal beneath the specification root
// and recovers the last sequence number from existing entries.
func OpenJournal(dir string) (*Journal, error) {
	path := filepath.Join(dir, journalFileName)
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open session journal: %w", err)
	}

	j := &Journal{
		file:   file,
		writer: bufio.NewWriter(file),
	}
	entries, err := readEntries(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to recover session journal: %w", err)
	}
	if len(entries) > 0 {
		j.lastSeq = entries[len(entries)-1].Seq
	}
	return j, nil
}

// Append writes one disposition entry and flushes it to disk.
func (j *Journal) Append(entry JournalEntry) (uint64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.lastSeq++
	entry.Seq = j.lastSeq
	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().Unix()
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal journal entry: %w", err)
	}
	compressed := snappy.Encode(nil, payload)

	var header [16]byte
	binary.LittleEndian.PutUint64(header[0:8], entry.Seq)
	binary.LittleEndian.PutUint32(header[8:12], uint32(len(compressed)))
	binary.LittleEndian.PutUint32(header[12:16], crc32.ChecksumIEEE(compressed))

	if _, err := j.writer.Write(header[:]); err != nil {
		return 0, fmt.Errorf("failed to write journal header: %w", err)
	}
	if _, err := j.writer.Write(compressed); err != nil {
		return 0, fmt.Errorf("failed to write journal entry: %w", err)
	}
	if err := j.writer.Flush(); err != nil {
		return 0, fmt.Errorf("failed to flush journal: %w", err)
	}
	return entry.Seq, nil
}

// Entries re-reads the whole journal. Used by re-runs to resume with full
// context of prior sessions.
func (j *Journal) Entries() ([]JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.writer.Flush(); err != nil {
		return nil, err
	}
	return readEntries(j.file)
}

// Close flushes and closes the journal file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.writer.Flush(); err != nil {
		j.file.Close()
		return err
	}
	return j.file.Close()
}

func readEntries(file *os.File) ([]JournalEntry, error) {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	defer file.Seek(0, io.SeekEnd)

	reader := bufio.NewReader(file)
	var entries []JournalEntry
	for {
		var header [16]byte
		if _, err := io.ReadFull(reader, header[:]); err != nil {
			// EOF or a truncated header ends recovery; everything read so
			// far is valid.
			break
		}
		seq := binary.LittleEndian.Uint64(header[0:8])
		length := binary.LittleEndian.Uint32(header[8:12])
		checksum := binary.LittleEndian.Uint32(header[12:16])

		compressed := make([]byte, length)
		if _, err := io.ReadFull(reader, compressed); err != nil {
			break
		}
		if crc32.ChecksumIEEE(compressed) != checksum {
			break
		}

		payload, err := snappy.Decode(nil, compressed)
		if err != nil {
			break
		}
		var entry JournalEntry
		if err := json.Unmarshal(payload, &entry); err != nil {
			break
		}
		entry.Seq = seq
		entries = append(entries, entry)
	}
	return entries, nil
}
