// Package dataset reads labeled samples from CSV files.
//
// Each record holds the feature values followed by the label in the last
// column. Query files may be read without the label column.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"perceptron/common"
	"perceptron/core/ml"
)

type Options struct {
	HasHeader bool
	Unlabeled bool // every column is a feature, labels are left empty
	Comma     rune // defaults to ','
}

func LoadFile(path string, opts Options) (*ml.SampleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open sample file %s", path)
	}
	defer f.Close()

	ss, err := LoadCSV(f, opts)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	common.GetLogger(common.MODULE_DATASET).Infof("loaded %d samples with %d features from %s",
		ss.Len(), ss.FeatureCount(), path)
	return ss, nil
}

// LoadCSV parses every record of r into a sample. Blank lines are skipped.
// Feature counts are not compared across rows here; the perceptron does that.
func LoadCSV(r io.Reader, opts Options) (*ml.SampleSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	ss := ml.NewSampleSet()
	first := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read csv")
		}
		if first && opts.HasHeader {
			first = false
			continue
		}
		first = false
		line, _ := cr.FieldPos(0)

		s, err := parseRecord(record, opts.Unlabeled)
		if err != nil {
			return nil, errors.WithMessagef(err, "line %d", line)
		}
		ss.Add(s)
	}
	return ss, nil
}

func parseRecord(record []string, unlabeled bool) (*ml.Sample, error) {
	cols := record
	label := ""
	if !unlabeled {
		if len(record) < 2 {
			return nil, errors.Errorf("expected at least one feature and a label, got %d columns", len(record))
		}
		cols = record[:len(record)-1]
		label = strings.TrimSpace(record[len(record)-1])
		if label == "" {
			return nil, errors.New("empty label")
		}
	}
	if len(cols) == 0 {
		return nil, errors.New("no feature columns")
	}

	features := make([]float64, len(cols))
	for i, c := range cols {
		v, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "column %d", i+1)
		}
		features[i] = v
	}
	return ml.NewSample(features, label), nil
}
