// Package parquet exports madu analysis results to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
)

// ResultRecord is one ranked entry of an analysis result: a file, or a group
// when the result was aggregated.
type ResultRecord struct {
	// Rank is the 1-based position after skip and top were applied
	Rank int32 `parquet:"rank,snappy"`

	// Key is the file path, extension or directory
	Key string `parquet:"key,snappy"`

	// Metric is the metric kind the value was computed for
	Metric string `parquet:"metric,snappy"`

	// Value is the metric value
	Value float64 `parquet:"value,snappy"`

	// Label is the heat bucket of the value
	Label string `parquet:"label,snappy"`

	// FileCount is the number of files behind the value (1 for file rows)
	FileCount int32 `parquet:"file_count,snappy"`

	// Author is the primary author (nullable, file rows with history only)
	Author *string `parquet:"author,optional,snappy"`

	// Language is the detected language of an extension group (nullable)
	Language *string `parquet:"language,optional,snappy"`

	// AnalysisTime is when the pass finished
	AnalysisTime time.Time `parquet:"analysis_time,snappy"`
}

// WriteResultsParquet writes ranked result records to outputPath.
func WriteResultsParquet(data []ResultRecord, outputPath string) error {
	return writeFile(outputPath, func(w io.Writer) error {
		return writeRecords(w, data)
	})
}

// writeRecords writes data with a schema inferred from the struct tags of T.
func writeRecords[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

func writeFile(outputPath string, write func(io.Writer) error) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return write(file)
}

// ReadRecords reads every record of type T back from a Parquet file.
func ReadRecords[T any](path string) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	out := make([]T, reader.NumRows())
	n, err := reader.Read(out)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	return out[:n], nil
}
