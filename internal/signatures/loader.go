package signatures

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/IvanShishkin/winsentry/pkg/models"
	"github.com/hashicorp/errwrap"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Loader loads the signature database from a YAML or JSON file
type Loader struct {
	signaturesPath string
	logger         *zap.Logger
}

// NewLoader creates a new signature loader
func NewLoader(signaturesPath string, logger *zap.Logger) *Loader {
	return &Loader{
		signaturesPath: signaturesPath,
		logger:         logger,
	}
}

// Path returns the database file path
func (l *Loader) Path() string {
	return l.signaturesPath
}

// Load reads the database and compiles it into a Store. A missing file is
// created with the default database; an unreadable or corrupt file yields
// an empty database. Load never fails.
func (l *Loader) Load() *Store {
	db, err := l.read()
	switch {
	case err == nil:
	case os.IsNotExist(err):
		db = models.DefaultSignatureDatabase()
		if werr := l.Save(db); werr != nil {
			l.logger.Warn("Failed to write default signature database, using in-memory copy",
				zap.String("path", l.signaturesPath), zap.Error(werr))
		} else {
			l.logger.Info("Created default signature database", zap.String("path", l.signaturesPath))
		}
	default:
		l.logger.Warn("Signature database unusable, continuing with empty database",
			zap.String("path", l.signaturesPath), zap.Error(err))
		db = models.NewSignatureDatabase()
	}

	return NewStore(db, l.logger)
}

// read parses the database file
func (l *Loader) read() (*models.SignatureDatabase, error) {
	data, err := os.ReadFile(l.signaturesPath)
	if err != nil {
		return nil, err
	}

	db := models.NewSignatureDatabase()
	if l.isJSON() {
		err = json.Unmarshal(data, db)
	} else {
		err = yaml.Unmarshal(data, db)
	}
	if err != nil {
		return nil, errwrap.Wrapf("corrupt signature database: {{err}}", err)
	}

	if db.Hashes == nil {
		db.Hashes = make(map[string]string)
	}
	return db, nil
}

// Save writes db to the database path, creating parent directories
func (l *Loader) Save(db *models.SignatureDatabase) error {
	if dir := filepath.Dir(l.signaturesPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create signature directory: %w", err)
		}
	}

	var (
		data []byte
		err  error
	)
	if l.isJSON() {
		data, err = json.MarshalIndent(db, "", "  ")
	} else {
		data, err = yaml.Marshal(db)
	}
	if err != nil {
		return fmt.Errorf("failed to encode signature database: %w", err)
	}

	return os.WriteFile(l.signaturesPath, data, 0o644)
}

func (l *Loader) isJSON() bool {
	return strings.EqualFold(filepath.Ext(l.signaturesPath), ".json")
}
