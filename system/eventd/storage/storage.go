// Package storage persists lambda event declarations in a directory, one
// hyperlambda file per event, so that events declared at runtime survive a
// restart.
package storage

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/signadot/hyperlambda/encode"
	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/gomap"
	"github.com/signadot/hyperlambda/ir"
)

const (
	eventsDir = "events"
	metaDir   = "meta"
	suffix    = ".hl"
)

// Record is the persisted form of the lambda handlers of an event.
type Record struct {
	Name      string     `hl:"name"`
	Seq       int64      `hl:"seq"`
	Protected bool       `hl:"protected,omitempty"`
	Bodies    []*ir.Node `hl:"bodies"`
}

type Storage struct {
	root string
	log  *slog.Logger

	seqMu sync.Mutex
	mu    sync.Mutex
}

// Open opens the storage rooted at root, creating its directories.
func Open(root string, log *slog.Logger) (*Storage, error) {
	if log == nil {
		log = slog.Default()
	}
	for _, d := range []string{eventsDir, metaDir} {
		if err := os.MkdirAll(filepath.Join(root, d), 0755); err != nil {
			return nil, fmt.Errorf("could not create storage: %w", err)
		}
	}
	return &Storage{root: root, log: log.With("storage", root)}, nil
}

func (s *Storage) Root() string { return s.root }

func (s *Storage) path(name string) string {
	return filepath.Join(s.root, eventsDir, url.PathEscape(name)+suffix)
}

// Save writes the handlers of name under a new sequence number. Saves are
// serialized, so the file of name always holds its highest sequence number.
func (s *Storage) Save(name string, bodies []*ir.Node, prot event.Protection) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq, err := s.NextSeq()
	if err != nil {
		return 0, err
	}
	rec := &Record{
		Name:      name,
		Seq:       seq,
		Protected: prot.Closed(),
		Bodies:    bodies,
	}
	n, err := gomap.Encode("", rec)
	if err != nil {
		return 0, err
	}
	var buf bytes.Buffer
	if err := encode.EncodeNodes(n.Children, &buf); err != nil {
		return 0, err
	}
	p := s.path(name)
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return 0, err
	}
	return seq, nil
}

// Remove deletes the record of name, if any.
func (s *Storage) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Records returns the stored records ordered by sequence number.
func (s *Storage) Records() ([]*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := os.ReadDir(filepath.Join(s.root, eventsDir))
	if err != nil {
		return nil, err
	}
	var res []*Record
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		p := filepath.Join(s.root, eventsDir, e.Name())
		d, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		rec := &Record{}
		if err := gomap.Load(d, rec); err != nil {
			return nil, fmt.Errorf("could not decode %s: %w", p, err)
		}
		res = append(res, rec)
	}
	slices.SortFunc(res, func(a, b *Record) int {
		return cmp.Compare(a.Seq, b.Seq)
	})
	return res, nil
}

// Load declares every stored event in reg and returns how many there were.
func (s *Storage) Load(reg *event.Registry) (int, error) {
	recs, err := s.Records()
	if err != nil {
		return 0, err
	}
	for _, rec := range recs {
		prot := event.LambdaOpen
		if rec.Protected {
			prot = event.LambdaClosed
		}
		if err := reg.SetLambda(rec.Name, rec.Bodies, prot); err != nil {
			return 0, fmt.Errorf("could not declare %q: %w", rec.Name, err)
		}
	}
	return len(recs), nil
}

// Attach persists every later change of the lambda handlers of reg.
func (s *Storage) Attach(reg *event.Registry) {
	reg.Watch(s.onChange)
}

func (s *Storage) onChange(c event.Change) {
	if len(c.Bodies) == 0 {
		if err := s.Remove(c.Name); err != nil {
			s.log.Error("could not remove event", "event", c.Name, "error", err)
		}
		return
	}
	seq, err := s.Save(c.Name, c.Bodies, c.Prot)
	if err != nil {
		s.log.Error("could not save event", "event", c.Name, "error", err)
		return
	}
	s.log.Debug("saved event", "event", c.Name, "seq", seq)
}
