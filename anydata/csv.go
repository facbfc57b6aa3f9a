package anydata

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/unixpickle/anyvec"
)

// CSVOptions controls how ReadCSV interprets its input.
type CSVOptions struct {
	// LabelColumn is the index of the column holding the
	// integer class label.
	// Negative indices count from the end, so -1 is the
	// last column.
	LabelColumn int

	// Comma is the field separator.
	// If it is 0, ',' is used.
	Comma rune

	// HasHeader indicates that the first record should be
	// skipped.
	HasHeader bool

	// NumClasses is the size of the one-hot outputs.
	// If it is 0, it is one more than the largest label.
	NumClasses int
}

// LoadCSV reads a labeled data set from a CSV file.
func LoadCSV(path string, c anyvec.Creator, opts CSVOptions) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "load CSV")
	}
	defer f.Close()
	res, err := ReadCSV(f, c, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "load CSV %s", path)
	}
	return res, nil
}

// ReadCSV reads a labeled data set with numeric features.
//
// Every column except the label column becomes an input
// component.
// Labels must be non-negative integers.
// Blank lines are skipped, so errors name the failing
// record (counting from 1, header included) rather than
// a line of the input.
func ReadCSV(r io.Reader, c anyvec.Creator, opts CSVOptions) (Set, error) {
	reader := csv.NewReader(r)
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}
	reader.TrimLeadingSpace = true

	var inputs [][]float64
	var labels []int
	maxLabel := -1
	record := 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Wrap(err, "read CSV")
		}
		record++
		if record == 1 && opts.HasHeader {
			continue
		}
		labelIdx := opts.LabelColumn
		if labelIdx < 0 {
			labelIdx += len(fields)
		}
		if labelIdx < 0 || labelIdx >= len(fields) {
			return nil, errors.Errorf("record %d: no label column %d", record,
				opts.LabelColumn)
		}
		label, err := strconv.Atoi(strings.TrimSpace(fields[labelIdx]))
		if err != nil {
			return nil, errors.Wrapf(err, "record %d: label", record)
		} else if label < 0 {
			return nil, errors.Errorf("record %d: negative label %d", record, label)
		}
		features := make([]float64, 0, len(fields)-1)
		for i, field := range fields {
			if i == labelIdx {
				continue
			}
			x, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "record %d: column %d", record, i)
			}
			features = append(features, x)
		}
		if len(inputs) > 0 && len(features) != len(inputs[0]) {
			return nil, errors.Errorf("record %d: expected %d features but got %d",
				record, len(inputs[0]), len(features))
		}
		inputs = append(inputs, features)
		labels = append(labels, label)
		if label > maxLabel {
			maxLabel = label
		}
	}

	numClasses := opts.NumClasses
	if numClasses == 0 {
		numClasses = maxLabel + 1
	} else if maxLabel >= numClasses {
		return nil, errors.Errorf("label %d out of range for %d classes",
			maxLabel, numClasses)
	}

	res := make(Set, len(inputs))
	for i, in := range inputs {
		res[i] = &Sample{
			Input:  c.MakeVectorData(c.MakeNumericList(in)),
			Output: OneHot(c, labels[i], numClasses),
			Label:  labels[i],
		}
	}
	return res, nil
}
