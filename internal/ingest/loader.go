package ingest

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gocarina/gocsv"

	"github.com/i474232898/hotel-weather-analysis/internal/hotels"
)

var validate = validator.New()

// hotelRow mirrors one CSV row of the bulk hotel listings. Coordinates stay
// strings at this stage because the raw data contains non-numeric values
// that must drop the row, not abort the file.
type hotelRow struct {
	ID        string `csv:"Id"`
	Name      string `csv:"Name"`
	Country   string `csv:"Country"`
	City      string `csv:"City"`
	Latitude  string `csv:"Latitude"`
	Longitude string `csv:"Longitude"`
}

// Loader extracts zip archives from the input directory into a temporary
// folder and reads every contained CSV into one validated dataset.
type Loader struct {
	inputDir string
	tempDir  string
}

// NewLoader creates the temp folder and extracts all archives. Close
// removes the temp folder again.
func NewLoader(inputDir string) (*Loader, error) {
	tempDir, err := os.MkdirTemp("", "hotel-weather-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	l := &Loader{inputDir: inputDir, tempDir: tempDir}
	if err := l.extractArchives(); err != nil {
		os.RemoveAll(tempDir)
		return nil, err
	}
	return l, nil
}

// Close removes the temporary extraction folder.
func (l *Loader) Close() error {
	return os.RemoveAll(l.tempDir)
}

func (l *Loader) extractArchives() error {
	entries, err := os.ReadDir(l.inputDir)
	if err != nil {
		return fmt.Errorf("read input dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		archive, err := zip.OpenReader(filepath.Join(l.inputDir, entry.Name()))
		if err != nil {
			// Not a zip file; other inputs are simply left alone.
			continue
		}

		for _, file := range archive.File {
			if !strings.EqualFold(filepath.Ext(file.Name), ".csv") {
				continue
			}
			if err := l.extractFile(file); err != nil {
				archive.Close()
				return fmt.Errorf("extract %s from %s: %w", file.Name, entry.Name(), err)
			}
		}
		archive.Close()
	}
	return nil
}

func (l *Loader) extractFile(file *zip.File) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	// Archive paths are flattened; only the base name matters here.
	dst, err := os.Create(filepath.Join(l.tempDir, filepath.Base(file.Name)))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// Load reads every extracted CSV, drops rows with blank fields or invalid
// coordinates, and returns the surviving records as a dataset.
func (l *Loader) Load() (hotels.Dataset, error) {
	paths, err := filepath.Glob(filepath.Join(l.tempDir, "*.csv"))
	if err != nil {
		return hotels.Dataset{}, err
	}

	var records []hotels.HotelRecord
	var dropped int

	for _, path := range paths {
		rows, err := readRows(path)
		if err != nil {
			return hotels.Dataset{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}

		for _, row := range rows {
			rec, ok := rowToRecord(row)
			if !ok {
				dropped++
				continue
			}
			records = append(records, rec)
		}
	}

	if dropped > 0 {
		log.Printf("INFO: dropped %d invalid hotel rows during ingestion", dropped)
	}
	return hotels.NewDataset(records), nil
}

func readRows(path string) ([]hotelRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []hotelRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// rowToRecord validates a raw row. Rows with blank names or locations,
// non-numeric coordinates, or coordinates outside the valid range are
// rejected.
func rowToRecord(row hotelRow) (hotels.HotelRecord, bool) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(row.Latitude), 64)
	if err != nil {
		return hotels.HotelRecord{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(row.Longitude), 64)
	if err != nil {
		return hotels.HotelRecord{}, false
	}

	rec := hotels.HotelRecord{
		Country:   strings.TrimSpace(row.Country),
		City:      strings.TrimSpace(row.City),
		Name:      strings.TrimSpace(row.Name),
		Latitude:  lat,
		Longitude: lon,
	}
	if err := validate.Struct(rec); err != nil {
		return hotels.HotelRecord{}, false
	}
	return rec, true
}
