// Package mapper converts between domain and storage representations.
//
// Converters are registered per (source, target) type pair at startup and
// looked up by type at call time; field copying itself is plain Go code in
// each converter. A Mapper is read-only once wiring is done, so it is safe
// for concurrent use.
package mapper

import (
	"fmt"
	"reflect"
	"sync"

	"go-docstore-repo/internal/errs"
)

type key struct{ src, dst reflect.Type }

type Mapper struct {
	mu    sync.RWMutex
	convs map[key]any
}

func New() *Mapper { return &Mapper{convs: map[key]any{}} }

// Register installs fn as the S -> T converter, replacing any previous one.
func Register[S, T any](m *Mapper, fn func(S) (T, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.convs[key{reflect.TypeFor[S](), reflect.TypeFor[T]()}] = fn
}

// Require reports a *errs.MappingError when no S -> T converter is registered.
func Require[S, T any](m *Mapper) error {
	_, err := lookup[S, T](m)
	return err
}

func lookup[S, T any](m *Mapper) (func(S) (T, error), error) {
	src, dst := reflect.TypeFor[S](), reflect.TypeFor[T]()
	m.mu.RLock()
	c, ok := m.convs[key{src, dst}]
	m.mu.RUnlock()
	if !ok {
		return nil, &errs.MappingError{From: src.String(), To: dst.String(), Cause: fmt.Errorf("no converter registered")}
	}
	return c.(func(S) (T, error)), nil
}

// Map converts *src into a new T. A nil src yields a nil result and no error.
func Map[S, T any](m *Mapper, src *S) (*T, error) {
	if src == nil {
		return nil, nil
	}
	conv, err := lookup[S, T](m)
	if err != nil {
		return nil, err
	}
	out, err := conv(*src)
	if err != nil {
		return nil, wrap[S, T](err)
	}
	return &out, nil
}

// CollectionToList converts every element, keeping input order. The result
// is never nil.
func CollectionToList[S, T any](m *Mapper, src []S) ([]T, error) {
	conv, err := lookup[S, T](m)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(src))
	for i := range src {
		v, err := conv(src[i])
		if err != nil {
			return nil, wrap[S, T](err)
		}
		out = append(out, v)
	}
	return out, nil
}

// CollectionToSet converts every element into an unordered set. Elements
// collapse only when the converted values are equal.
func CollectionToSet[S any, T comparable](m *Mapper, src []S) (Set[T], error) {
	conv, err := lookup[S, T](m)
	if err != nil {
		return nil, err
	}
	out := make(Set[T], len(src))
	for i := range src {
		v, err := conv(src[i])
		if err != nil {
			return nil, wrap[S, T](err)
		}
		out.Add(v)
	}
	return out, nil
}

func wrap[S, T any](err error) error {
	if errs.IsMapping(err) {
		return err
	}
	return &errs.MappingError{
		From:  reflect.TypeFor[S]().String(),
		To:    reflect.TypeFor[T]().String(),
		Cause: err,
	}
}
