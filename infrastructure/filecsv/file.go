package filecsv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"channel-insights/domain/model"
)

// Header is the fixed column layout of a dataset artifact
var Header = []string{"title", "views", "likes", "comments", "duration", "upload_date"}

// minColumns is the mandatory prefix of Header; duration and upload_date are optional
const minColumns = 4

// ErrMalformed is returned when an artifact cannot be decoded into a dataset
var ErrMalformed = errors.New("malformed dataset artifact")

// Encode writes the dataset as CSV with the fixed header
func Encode(w io.Writer, dataset model.VideoDataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range dataset {
		row := []string{
			model.NormalizeLineEndings(r.Title),
			strconv.FormatInt(r.Views, 10),
			strconv.FormatInt(r.Likes, 10),
			strconv.FormatInt(r.Comments, 10),
			strconv.FormatInt(r.Duration, 10),
			r.UploadDate,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Marshal encodes the dataset into a byte slice
func Marshal(dataset model.VideoDataset) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, dataset); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a CSV artifact. Both the 4-column and the 6-column header are accepted.
func Decode(r io.Reader) (model.VideoDataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrMalformed, err)
	}
	width, err := checkHeader(header)
	if err != nil {
		return nil, err
	}

	dataset := model.VideoDataset{}
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
		if len(row) != width {
			return nil, fmt.Errorf("%w: line %d: expected %d fields, got %d", ErrMalformed, line, width, len(row))
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
		dataset = append(dataset, rec)
	}
	return dataset, nil
}

// Unmarshal decodes a dataset from bytes
func Unmarshal(data []byte) (model.VideoDataset, error) {
	return Decode(bytes.NewReader(data))
}

func checkHeader(header []string) (int, error) {
	if len(header) != minColumns && len(header) != len(Header) {
		return 0, fmt.Errorf("%w: unexpected header %v", ErrMalformed, header)
	}
	for i, col := range header {
		// a UTF-8 BOM may precede the first column
		if strings.TrimPrefix(strings.TrimSpace(col), "\ufeff") != Header[i] {
			return 0, fmt.Errorf("%w: unexpected header %v", ErrMalformed, header)
		}
	}
	return len(header), nil
}

func parseRow(row []string) (model.VideoRecord, error) {
	rec := model.VideoRecord{Title: row[0]}
	counts := []*int64{&rec.Views, &rec.Likes, &rec.Comments}
	for i, dst := range counts {
		n, err := parseCount(row[i+1])
		if err != nil {
			return rec, fmt.Errorf("column %s: %w", Header[i+1], err)
		}
		*dst = n
	}
	if len(row) == len(Header) {
		n, err := parseCount(row[4])
		if err != nil {
			return rec, fmt.Errorf("column duration: %w", err)
		}
		rec.Duration = n
		rec.UploadDate = row[5]
	}
	return rec, nil
}

// parseCount accepts empty cells and float notation some spreadsheet tools emit
func parseCount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0, nil
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, nil
	}
	return int64(f), nil
}

// ReadDatasetFile loads a dataset artifact. A missing file returns an error
// satisfying errors.Is(err, os.ErrNotExist).
func ReadDatasetFile(path string) (model.VideoDataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Decode(file)
}

// WriteDatasetFile replaces the artifact at path with the full dataset.
// Readers never observe a partially written file.
func WriteDatasetFile(path string, dataset model.VideoDataset) error {
	w, err := NewAtomicWriter(path)
	if err != nil {
		return err
	}
	if err := Encode(w, dataset); err != nil {
		_ = w.Abort()
		return fmt.Errorf("encode dataset: %w", err)
	}
	return w.Commit()
}
