package values

import (
	"strings"

	"github.com/tim-hardcastle/dsh/source/report"
)

// A rectangular grid of values, homogeneous in the same way as a List. Ragged rows are padded
// with nulls, so every row always has Cols() cells.
type Matrix struct {
	cells       [][]Value
	cols        int
	elementType ValueType
}

func NewMatrix() *Matrix {
	return &Matrix{}
}

// Makes a matrix from the given rows, copying them.
func MatrixOf(rows [][]Value) (*Matrix, *report.Error) {
	m := NewMatrix()
	for _, row := range rows {
		for _, v := range row {
			if e := m.checkAndSetElementType(v); e != nil {
				return nil, e
			}
		}
		m.cells = append(m.cells, append([]Value{}, row...))
	}
	m.normalize()
	return m, nil
}

func NewMatrixValue(rows [][]Value) report.Result[Value] {
	m, e := MatrixOf(rows)
	if e != nil {
		return report.Fail[Value](e)
	}
	return report.Ok(MatrixValue(m))
}

func (m *Matrix) checkAndSetElementType(v Value) *report.Error {
	if v.T == NULL || v.T == UNDEFINED_VALUE {
		return nil
	}
	if m.elementType == UNDEFINED_VALUE {
		m.elementType = v.T
		return nil
	}
	if v.T != m.elementType {
		return report.CreateErr("values/matrix/type", nil, v.T.String(), m.elementType.String())
	}
	return nil
}

// Pads every row to the width of the widest. This must be called after every structural change.
func (m *Matrix) normalize() {
	maxCols := 0
	for _, row := range m.cells {
		maxCols = max(maxCols, len(row))
	}
	for i, row := range m.cells {
		for j, v := range row {
			if v.T == UNDEFINED_VALUE {
				row[j] = NULL_V
			}
		}
		for len(row) < maxCols {
			row = append(row, NULL_V)
		}
		m.cells[i] = row
	}
	m.cols = maxCols
}

// Adds a row at the bottom. An empty row is ignored.
func (m *Matrix) AddRow(row []Value) *report.Error {
	if len(row) == 0 {
		return nil
	}
	saved := m.elementType
	for _, v := range row {
		if e := m.checkAndSetElementType(v); e != nil {
			m.elementType = saved
			return e
		}
	}
	m.cells = append(m.cells, append([]Value{}, row...))
	m.normalize()
	return nil
}

func (m *Matrix) Get(row, col int) Value {
	if row >= 0 && row < len(m.cells) && col >= 0 && col < m.cols {
		return m.cells[row][col]
	}
	return NULL_V
}

// Replaces a cell. A position outside the matrix is ignored, but the type is still checked.
func (m *Matrix) Set(row, col int, v Value) *report.Error {
	if e := m.checkAndSetElementType(v); e != nil {
		return e
	}
	if row >= 0 && row < len(m.cells) && col >= 0 && col < m.cols {
		if v.T == UNDEFINED_VALUE {
			v = NULL_V
		}
		m.cells[row][col] = v
	}
	return nil
}

// Returns a row as a list, or an empty list if there's no such row.
func (m *Matrix) Row(row int) *List {
	l := NewList()
	if row >= 0 && row < len(m.cells) {
		for _, v := range m.cells[row] {
			l.Put(v) // Can't fail, the matrix being homogeneous.
		}
	}
	return l
}

// Returns a column as a list, or an empty list if there's no such column.
func (m *Matrix) Column(col int) *List {
	l := NewList()
	if col >= 0 && col < m.cols {
		for _, row := range m.cells {
			l.Put(row[col])
		}
	}
	return l
}

func (m *Matrix) Rows() int {
	return len(m.cells)
}

func (m *Matrix) Cols() int {
	return m.cols
}

func (m *Matrix) IsEmpty() bool {
	return len(m.cells) == 0 || m.cols == 0
}

func (m *Matrix) ElementType() ValueType {
	return m.elementType
}

func (m *Matrix) Clear() {
	m.cells = nil
	m.cols = 0
	m.elementType = UNDEFINED_VALUE
}

// A copy of the cells.
func (m *Matrix) Cells() [][]Value {
	result := make([][]Value, len(m.cells))
	for i, row := range m.cells {
		result[i] = append([]Value{}, row...)
	}
	return result
}

func (m *Matrix) String() string {
	rows := make([]string, 0, len(m.cells))
	for _, row := range m.cells {
		parts := make([]string, 0, len(row))
		for _, v := range row {
			parts = append(parts, v.String())
		}
		rows = append(rows, strings.Join(parts, ", "))
	}
	return strings.Join(rows, "\n")
}
