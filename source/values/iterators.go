package values

import (
	"src.elv.sh/pkg/persistent/vector"
)

type Iterator interface {
	Unfinished() bool
	GetKey() Value
	GetValue() Value
	GetKeyValuePair() (Value, Value)
	Reset()
}

type ListIterator struct {
	Vec   vector.Vector
	VecIt vector.Iterator
	pos   int
}

func (it *ListIterator) Unfinished() bool {
	return it.VecIt.HasElem()
}

func (it *ListIterator) GetKey() Value {
	keyResult := Int(int64(it.pos))
	it.pos++
	it.VecIt.Next()
	return keyResult
}

func (it *ListIterator) GetValue() Value {
	valResult := it.VecIt.Elem().(Value)
	it.pos++
	it.VecIt.Next()
	return valResult
}

func (it *ListIterator) GetKeyValuePair() (Value, Value) {
	keyResult := Int(int64(it.pos))
	valResult := it.VecIt.Elem().(Value)
	it.pos++
	it.VecIt.Next()
	return keyResult, valResult
}

func (it *ListIterator) Reset() {
	it.VecIt = it.Vec.Iterator()
	it.pos = 0
}

// Goes through the cells of a matrix in row-major order. The key of a cell is the list [row, col].
type MatrixIterator struct {
	Mx  *Matrix
	row int
	col int
}

func (it *MatrixIterator) Unfinished() bool {
	return it.row < it.Mx.Rows() && it.Mx.Cols() > 0
}

func (it *MatrixIterator) key() Value {
	l := NewList()
	l.Put(Int(int64(it.row)))
	l.Put(Int(int64(it.col)))
	return ListValue(l)
}

func (it *MatrixIterator) advance() {
	it.col++
	if it.col >= it.Mx.Cols() {
		it.col = 0
		it.row++
	}
}

func (it *MatrixIterator) GetKey() Value {
	keyResult := it.key()
	it.advance()
	return keyResult
}

func (it *MatrixIterator) GetValue() Value {
	valResult := it.Mx.Get(it.row, it.col)
	it.advance()
	return valResult
}

func (it *MatrixIterator) GetKeyValuePair() (Value, Value) {
	keyResult := it.key()
	valResult := it.Mx.Get(it.row, it.col)
	it.advance()
	return keyResult, valResult
}

func (it *MatrixIterator) Reset() {
	it.row = 0
	it.col = 0
}

// Iterates over the elements of a list or the cells of a matrix, or over a scalar as though it
// were a list of one element.
func Elements(v Value) Iterator {
	switch v.T {
	case LIST:
		return v.V.(*List).Iterator()
	case MATRIX:
		return &MatrixIterator{Mx: v.V.(*Matrix)}
	}
	l := NewList()
	l.Put(v)
	return l.Iterator()
}
