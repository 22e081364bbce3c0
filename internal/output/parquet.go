package output

import (
	"fmt"
	"io"

	"github.com/chrisdamba/menusight/internal/cloudwriter"
	"github.com/chrisdamba/menusight/internal/models"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

// RevenueRow is the parquet layout of one revenue series point.
type RevenueRow struct {
	Date      string  `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8"`
	Revenue   float64 `parquet:"name=revenue, type=DOUBLE"`
	Orders    int64   `parquet:"name=orders, type=INT64"`
	Profit    float64 `parquet:"name=profit, type=DOUBLE"`
	Estimated bool    `parquet:"name=estimated, type=BOOLEAN"`
}

// ExportRevenueParquet writes series to fw and closes it. progress, when not
// nil, is called after every row.
func ExportRevenueParquet(series []models.RevenueDataPoint, fw source.ParquetFile, progress func()) error {
	pw, err := writer.NewParquetWriter(fw, new(RevenueRow), 1)
	if err != nil {
		fw.Close()
		return fmt.Errorf("failed to create ParquetWriter: %w", err)
	}

	for _, point := range series {
		row := RevenueRow{
			Date:      point.Date,
			Revenue:   point.Revenue,
			Orders:    int64(point.Orders),
			Profit:    point.Profit,
			Estimated: true,
		}
		if err := pw.Write(row); err != nil {
			fw.Close()
			return fmt.Errorf("failed to write row %s: %w", point.Date, err)
		}
		if progress != nil {
			progress()
		}
	}

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return fw.Close()
}

// OpenParquetTarget resolves dest to a writable parquet file. "s3://bucket/key"
// targets go through factory; anything else is a local path.
func OpenParquetTarget(dest string, factory cloudwriter.CloudWriterFactory) (source.ParquetFile, error) {
	if cloudwriter.IsRemote(dest) {
		bucket, key, ok := cloudwriter.ParseLocation(dest)
		if !ok {
			return nil, fmt.Errorf("invalid s3 destination %q: %w", dest, models.ErrValidation)
		}
		if factory == nil {
			return nil, fmt.Errorf("no cloud writer configured for %q", dest)
		}
		cw, err := factory.NewWriter(bucket, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		return NewCloudParquetFile(cw), nil
	}

	fw, err := local.NewLocalFileWriter(dest)
	if err != nil {
		return nil, fmt.Errorf("failed to create local file writer: %w", err)
	}
	return fw, nil
}

// CloudParquetFile adapts a CloudWriter to the write-only half of
// source.ParquetFile.
type CloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func NewCloudParquetFile(cw cloudwriter.CloudWriter) *CloudParquetFile {
	return &CloudParquetFile{cloudWriter: cw}
}

func (c *CloudParquetFile) Open(string) (source.ParquetFile, error)   { return c, nil }
func (c *CloudParquetFile) Create(string) (source.ParquetFile, error) { return c, nil }

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *CloudParquetFile) Read([]byte) (int, error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *CloudParquetFile) Write(p []byte) (int, error) {
	n, err := c.cloudWriter.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *CloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}
