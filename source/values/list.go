package values

import (
	"strings"

	"github.com/tim-hardcastle/dsh/source/report"
	"src.elv.sh/pkg/persistent/vector"
)

// A homogeneous list. The first non-null element fixes the element type, and after that only
// values of that type (and nulls) may be put into it, until it is cleared.
type List struct {
	elements    vector.Vector
	elementType ValueType // UNDEFINED_VALUE until the type has been fixed.
}

func NewList() *List {
	return &List{elements: vector.Empty}
}

// Makes a list from the given values, failing if they aren't all of one type.
func ListOf(vals ...Value) (*List, *report.Error) {
	l := NewList()
	for _, v := range vals {
		if e := l.Put(v); e != nil {
			return nil, e
		}
	}
	return l, nil
}

// As ListOf, but wrapped up as a Value in a Result.
func NewListValue(vals []Value) report.Result[Value] {
	l, e := ListOf(vals...)
	if e != nil {
		return report.Fail[Value](e)
	}
	return report.Ok(ListValue(l))
}

func (l *List) check(v Value) *report.Error {
	if v.T == NULL || v.T == UNDEFINED_VALUE || l.elementType == UNDEFINED_VALUE {
		return nil
	}
	if v.T != l.elementType {
		return report.CreateErr("values/list/type", nil, l.elementType.String(), v.T.String())
	}
	return nil
}

func (l *List) Put(v Value) *report.Error {
	if v.T == UNDEFINED_VALUE {
		v = NULL_V
	}
	if e := l.check(v); e != nil {
		return e
	}
	if v.T != NULL && l.elementType == UNDEFINED_VALUE {
		l.elementType = v.T
	}
	l.elements = l.elements.Conj(v)
	return nil
}

// Replaces the ith element. An index outside the list is ignored, but the type is still checked.
func (l *List) Set(i int, v Value) *report.Error {
	if e := l.check(v); e != nil {
		return e
	}
	if i < 0 || i >= l.elements.Len() {
		return nil
	}
	if v.T != NULL && l.elementType == UNDEFINED_VALUE {
		l.elementType = v.T
	}
	l.elements = l.elements.Assoc(i, v)
	return nil
}

// Returns the ith element, or null if there isn't one.
func (l *List) Get(i int) Value {
	if i < 0 {
		return NULL_V
	}
	if v, ok := l.elements.Index(i); ok {
		return v.(Value)
	}
	return NULL_V
}

func (l *List) Clear() {
	l.elements = vector.Empty
	l.elementType = UNDEFINED_VALUE
}

func (l *List) Len() int {
	return l.elements.Len()
}

func (l *List) IsEmpty() bool {
	return l.elements.Len() == 0
}

func (l *List) ElementType() ValueType {
	return l.elementType
}

// A copy of the elements as a slice.
func (l *List) Elements() []Value {
	result := make([]Value, 0, l.Len())
	for it := l.Iterator(); it.Unfinished(); {
		result = append(result, it.GetValue())
	}
	return result
}

func (l *List) Iterator() *ListIterator {
	return &ListIterator{Vec: l.elements, VecIt: l.elements.Iterator()}
}

func (l *List) String() string {
	parts := make([]string, 0, l.Len())
	for it := l.Iterator(); it.Unfinished(); {
		parts = append(parts, it.GetValue().String())
	}
	return strings.Join(parts, ", ")
}
