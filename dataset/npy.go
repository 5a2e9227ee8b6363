package dataset

import (
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	mcxgbErrors "github.com/hrmn-preet/multi-class-xgboost/pkg/errors"
)

// SaveMatrixNPY writes a matrix to a NumPy .npy file.
func SaveMatrixNPY(path string, m *mat.Dense) error {
	if m == nil {
		return mcxgbErrors.NewValueError("SaveMatrixNPY", "matrix cannot be nil")
	}

	f, err := os.Create(path)
	if err != nil {
		return mcxgbErrors.Wrapf(err, "creating %s", path)
	}
	defer func() { _ = f.Close() }()

	if err := npyio.Write(f, m); err != nil {
		return mcxgbErrors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// LoadMatrixNPY reads a 2D float64 matrix from a NumPy .npy file.
func LoadMatrixNPY(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, mcxgbErrors.Wrapf(err, "opening %s", path)
	}
	defer func() { _ = f.Close() }()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, mcxgbErrors.Wrapf(err, "reading npy header of %s", path)
	}

	m := &mat.Dense{}
	if err := r.Read(m); err != nil {
		return nil, mcxgbErrors.Wrapf(err, "reading npy data of %s", path)
	}
	return m, nil
}

// SaveLabelsNPY writes integer labels as a float64 column vector .npy
// file, the layout NumPy consumers expect for class indices.
func SaveLabelsNPY(path string, labels []int) error {
	m := mat.NewDense(len(labels), 1, nil)
	for i, label := range labels {
		m.Set(i, 0, float64(label))
	}
	return SaveMatrixNPY(path, m)
}

// LoadLabelsNPY reads a column vector .npy file back into integer labels.
func LoadLabelsNPY(path string) ([]int, error) {
	m, err := LoadMatrixNPY(path)
	if err != nil {
		return nil, err
	}

	rows, cols := m.Dims()
	if cols != 1 {
		return nil, mcxgbErrors.NewDimensionError("LoadLabelsNPY", 1, cols, 1)
	}
	labels := make([]int, rows)
	for i := 0; i < rows; i++ {
		labels[i] = int(m.At(i, 0))
	}
	return labels, nil
}
