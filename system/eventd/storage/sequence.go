package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

const (
	seqFile = "seq"
	// offset 0-7: little-endian sequence number, 56 bits used
	seqFileSize = 8
	seqMask     = 0x00FFFFFFFFFFFFFF
)

// NextSeq atomically increments and returns the sequence number.
func (s *Storage) NextSeq() (int64, error) {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()

	seq, err := s.readSeqLocked()
	if err != nil {
		return 0, err
	}
	seq = (seq + 1) & seqMask
	if err := s.writeSeqLocked(seq); err != nil {
		return 0, err
	}
	return seq, nil
}

// CurrentSeq returns the last sequence number handed out.
func (s *Storage) CurrentSeq() (int64, error) {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()
	return s.readSeqLocked()
}

// Caller must hold seqMu.
func (s *Storage) readSeqLocked() (int64, error) {
	data, err := os.ReadFile(filepath.Join(s.root, metaDir, seqFile))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	if len(data) < seqFileSize {
		return 0, fmt.Errorf("invalid sequence file size: expected %d bytes, got %d", seqFileSize, len(data))
	}
	return int64(binary.LittleEndian.Uint64(data)) & seqMask, nil
}

// writeSeqLocked writes through a temporary file renamed into place.
// Caller must hold seqMu.
func (s *Storage) writeSeqLocked(seq int64) error {
	file := filepath.Join(s.root, metaDir, seqFile)
	tmpFile := file + ".tmp"

	data := make([]byte, seqFileSize)
	binary.LittleEndian.PutUint64(data, uint64(seq&seqMask))
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpFile, file); err != nil {
		os.Remove(tmpFile)
		return err
	}
	return nil
}
