package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/galaxy/internal/galaxy"
)

const (
	metadataFile = "metadata.json"
	pointsFile   = "points.csv"
)

var ErrSnapshotNotFound = errors.New("storage: snapshot not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string {
	return s.baseDir
}

type SnapshotMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Count     int                `json:"count"`
	Colored   bool               `json:"colored"`
	Params    galaxy.Params      `json:"params"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// Save writes f under a new snapshot id and returns the id.
func (s *Store) Save(name string, f *galaxy.Field, metrics map[string]float64) (string, error) {
	if name == "" {
		name = string(f.Params.Layout)
	}
	now := time.Now()
	id := fmt.Sprintf("%s_%d", Slug(name, "snapshot"), now.UnixNano())
	dir := filepath.Join(s.baseDir, id)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	meta := SnapshotMetadata{
		ID:        id,
		Name:      name,
		Timestamp: now,
		Count:     f.Len(),
		Colored:   f.Colored(),
		Params:    f.Params,
		Metrics:   metrics,
	}
	if err := writeJSON(filepath.Join(dir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writePoints(filepath.Join(dir, pointsFile), f); err != nil {
		return "", err
	}

	log.Debug("saved snapshot", "id", id, "particles", meta.Count, "dir", dir)
	return id, nil
}

// Slug maps name onto lowercase letters, digits and dashes so it is safe as
// a single path element. An empty name yields fallback.
func Slug(name, fallback string) string {
	if name == "" {
		return fallback
	}
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+'a'-'A')
		default:
			out = append(out, '-')
		}
	}
	return string(out)
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writePoints(path string, f *galaxy.Field) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)

	header := []string{"x", "y", "z"}
	if f.Colored() {
		header = append(header, "r", "g", "b")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for i := 0; i < f.Len(); i++ {
		p := f.At(i)
		row[0] = formatFloat(p.X)
		row[1] = formatFloat(p.Y)
		row[2] = formatFloat(p.Z)
		if f.Colored() {
			c := f.ColorAt(i)
			row[3] = formatFloat(c.R)
			row[4] = formatFloat(c.G)
			row[5] = formatFloat(c.B)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// List returns every readable snapshot, oldest first.
func (s *Store) List() ([]SnapshotMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SnapshotMetadata{}, nil
		}
		return nil, err
	}

	snaps := make([]SnapshotMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			log.Debug("skipping snapshot", "dir", entry.Name(), "err", err)
			continue
		}

		snaps = append(snaps, *meta)
	}

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Timestamp.Before(snaps[j].Timestamp) })
	return snaps, nil
}

func (s *Store) Load(id string) (*SnapshotMetadata, error) {
	if id == "" || id == "." || id == ".." || id != filepath.Base(id) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
		}
		return nil, err
	}

	var meta SnapshotMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", id, err)
	}

	return &meta, nil
}

// LoadField rebuilds the particle field stored under id.
func (s *Store) LoadField(id string) (*galaxy.Field, error) {
	meta, err := s.Load(id)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, id, pointsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	f := &galaxy.Field{
		Positions: make([]float32, 0, meta.Count*3),
		Params:    meta.Params,
	}
	if meta.Colored {
		f.Colors = make([]float32, 0, meta.Count*3)
	}

	for i, record := range records {
		if i == 0 || len(record) < 3 {
			continue
		}
		vals := make([]float32, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 32)
			if err != nil {
				return nil, fmt.Errorf("snapshot %s line %d: %w", id, i+1, err)
			}
			vals[j] = float32(v)
		}
		f.Positions = append(f.Positions, vals[:3]...)
		if meta.Colored && len(vals) >= 6 {
			f.Colors = append(f.Colors, vals[3:6]...)
		}
	}

	if f.Len() != meta.Count {
		return nil, fmt.Errorf("snapshot %s: expected %d particles, read %d", id, meta.Count, f.Len())
	}
	return f, nil
}

func (s *Store) Delete(id string) error {
	if _, err := s.Load(id); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(s.baseDir, id))
}
