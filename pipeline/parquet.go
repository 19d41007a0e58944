package pipeline

import (
	"math"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

type featureParquetRow struct {
	Calculator string  `parquet:"name=calculator, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Context    string  `parquet:"name=context, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Cycle      int64   `parquet:"name=cycle, type=INT64"`
	Feature    string  `parquet:"name=feature, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Value      float64 `parquet:"name=value, type=DOUBLE"`
	Valid      bool    `parquet:"name=valid, type=BOOLEAN"`
}

func writeFeaturesParquet(path string, rows []FeatureRow) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	pw, err := writer.NewParquetWriter(fw, new(featureParquetRow), 4)
	if err != nil {
		_ = fw.Close()
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, r := range rows {
		row := featureParquetRow{
			Calculator: r.Calculator,
			Context:    r.Context,
			Cycle:      int64(r.Cycle),
			Feature:    r.Feature,
			Value:      valueOrNaN(r.Value),
			Valid:      r.Valid,
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
