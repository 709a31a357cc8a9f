package signatures

import (
	"regexp"
	"strings"

	"github.com/IvanShishkin/winsentry/pkg/models"
	"go.uber.org/zap"
)

// Store is the compiled, read-only form of a signature database. It is
// safe for concurrent use.
type Store struct {
	db       *models.SignatureDatabase
	hashes   map[string]string
	patterns []compiledPattern
	reserved map[string]struct{}
}

type compiledPattern struct {
	source string
	re     *regexp.Regexp
}

// NewStore compiles db. Patterns are anchored at the start of the file name
// and matched case-insensitively; invalid patterns are logged and skipped.
func NewStore(db *models.SignatureDatabase, logger *zap.Logger) *Store {
	if db == nil {
		db = models.NewSignatureDatabase()
	}

	s := &Store{
		db:       db,
		hashes:   make(map[string]string, len(db.Hashes)),
		reserved: make(map[string]struct{}, len(db.SuspiciousNames)),
	}

	for digest, label := range db.Hashes {
		s.hashes[strings.ToLower(strings.TrimSpace(digest))] = label
	}

	for _, p := range db.Patterns {
		re, err := regexp.Compile("(?i)^(?:" + p + ")")
		if err != nil {
			logger.Warn("Skipping invalid signature pattern", zap.String("pattern", p), zap.Error(err))
			continue
		}
		s.patterns = append(s.patterns, compiledPattern{source: p, re: re})
	}

	for _, name := range db.SuspiciousNames {
		s.reserved[strings.ToLower(name)] = struct{}{}
	}

	return s
}

// Database returns the underlying database
func (s *Store) Database() *models.SignatureDatabase {
	return s.db
}

// LookupHash returns the family label for a hex digest
func (s *Store) LookupHash(digest string) (string, bool) {
	label, ok := s.hashes[strings.ToLower(digest)]
	return label, ok
}

// MatchesAnyPattern returns the first pattern, in listed order, that
// matches filename
func (s *Store) MatchesAnyPattern(filename string) (string, bool) {
	for _, p := range s.patterns {
		if p.re.MatchString(filename) {
			return p.source, true
		}
	}
	return "", false
}

// MatchingPatterns returns every pattern that matches filename, in listed order
func (s *Store) MatchingPatterns(filename string) []string {
	var matched []string
	for _, p := range s.patterns {
		if p.re.MatchString(filename) {
			matched = append(matched, p.source)
		}
	}
	return matched
}

// IsReservedName reports whether name is a reserved system process name
func (s *Store) IsReservedName(name string) bool {
	_, ok := s.reserved[strings.ToLower(name)]
	return ok
}

// Stats returns the number of hashes, usable patterns and reserved names
func (s *Store) Stats() (hashes, patterns, names int) {
	return len(s.hashes), len(s.patterns), len(s.reserved)
}
