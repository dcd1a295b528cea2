package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
	configFile   = "config.yaml"
)

var ErrNotFound = errors.New("storage: run not found")

// Store keeps finished runs under baseDir, one directory per run.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Scenario   string             `json:"scenario"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Bodies     int                `json:"bodies"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	Duration   float64            `json:"duration"`
	Guard      string             `json:"guard"`
	Collisions bool               `json:"collisions"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes the metadata, the sampled metric series and the config that
// produced them. It returns the new run id. The run is assembled in a
// temporary directory and only appears under its id once complete.
// Non-finite final metrics are left out of the metadata.
func (s *Store) Save(cfg *config.Config, bodies int, result *sim.Result) (string, error) {
	ts := s.now()
	name := cfg.Name
	if name == "" {
		name = cfg.Scenario.Kind
	}
	runID := fmt.Sprintf("%s_%s", name, ts.Format("20060102-150405.000"))
	runDir := filepath.Join(s.baseDir, runID)
	if _, err := os.Stat(runDir); err == nil {
		return "", fmt.Errorf("storage: run %s already exists", runID)
	}

	if err := s.Init(); err != nil {
		return "", err
	}
	tmp, err := os.MkdirTemp(s.baseDir, ".partial-")
	if err != nil {
		return "", err
	}
	if err := os.Chmod(tmp, 0755); err != nil {
		os.RemoveAll(tmp)
		return "", err
	}
	if err := s.write(tmp, runID, name, ts, cfg, bodies, result); err != nil {
		os.RemoveAll(tmp)
		return "", err
	}
	if err := os.Rename(tmp, runDir); err != nil {
		os.RemoveAll(tmp)
		return "", err
	}
	return runID, nil
}

func (s *Store) write(dir, runID, name string, ts time.Time, cfg *config.Config, bodies int, result *sim.Result) error {
	var duration float64
	if n := len(result.Times); n > 0 {
		duration = result.Times[n-1]
	}
	meta := RunMetadata{
		ID:         runID,
		Name:       name,
		Scenario:   cfg.Scenario.Kind,
		Timestamp:  ts,
		Seed:       cfg.Scenario.Seed,
		Bodies:     bodies,
		Dt:         cfg.Run.Dt,
		Steps:      result.StepsTaken,
		Duration:   duration,
		Guard:      cfg.Physics.Guard,
		Collisions: cfg.Physics.Collisions,
		Metrics:    finiteMetrics(result.Metrics),
	}
	if err := writeJSON(filepath.Join(dir, metadataFile), meta); err != nil {
		return err
	}
	if err := config.Save(filepath.Join(dir, configFile), cfg); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(dir, seriesFile))
	if err != nil {
		return err
	}
	if err := WriteSeriesCSV(f, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func finiteMetrics(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			out[k] = v
		}
	}
	return out
}

// WriteSeriesCSV writes one row per sample: time, then each metric in name
// order.
func WriteSeriesCSV(out io.Writer, result *sim.Result) error {
	names := seriesNames(result)
	w := csv.NewWriter(out)

	header := append([]string{"time"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}
	for i, t := range result.Times {
		row := []string{strconv.FormatFloat(t, 'g', -1, 64)}
		for _, n := range names {
			v := 0.0
			if s := result.Series[n]; i < len(s) {
				v = s[i]
			}
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func seriesNames(result *sim.Result) []string {
	names := make([]string, 0, len(result.Series))
	for n := range result.Series {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadConfig returns the config a run was produced with.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

// LoadSeries reads back the sampled times and metric series of a run.
func (s *Store) LoadSeries(runID string) ([]float64, map[string][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	series := make(map[string][]float64)
	if len(records) < 1 {
		return []float64{}, series, nil
	}
	header := records[0]
	times := make([]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("parse time %q: %w", record[0], err)
		}
		times = append(times, t)
		for j := 1; j < len(record) && j < len(header); j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("parse %s %q: %w", header[j], record[j], err)
			}
			series[header[j]] = append(series[header[j]], v)
		}
	}
	return times, series, nil
}

type ExportData struct {
	Meta   RunMetadata       `json:"meta"`
	Times  []float64         `json:"times"`
	Series map[string]Series `json:"series"`
}

// Series is a metric series whose non-finite samples encode as null and
// decode as NaN.
type Series []float64

func (s Series) MarshalJSON() ([]byte, error) {
	b := []byte{'['}
	for i, v := range s {
		if i > 0 {
			b = append(b, ',')
		}
		if math.IsInf(v, 0) || math.IsNaN(v) {
			b = append(b, "null"...)
			continue
		}
		b = strconv.AppendFloat(b, v, 'g', -1, 64)
	}
	return append(b, ']'), nil
}

func (s *Series) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Series, len(raw))
	for i, v := range raw {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *v
	}
	*s = out
	return nil
}

// ExportJSON writes a stored run as a single JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	times, series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	data := ExportData{Meta: *meta, Times: times, Series: make(map[string]Series, len(series))}
	for name, v := range series {
		data.Series[name] = v
	}
	return enc.Encode(data)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
