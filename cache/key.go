package cache

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// DefaultNamespace prefixes keys when no namespace is configured.
const DefaultNamespace = "records"

// KeyFor returns the single cache key under which the whole collection of T
// is stored. The key is derived from the type identity only, so every
// repository of T in every process shares it:
//
//	records::employee::9c1d4f0a2b7e6d35
//
// The readable segment is the snake_case type name; the hash covers the full
// package path so two types with the same name never collide.
func KeyFor[T any](namespace string) string {
	return keyForType(reflect.TypeOf((*T)(nil)).Elem(), namespace)
}

func keyForType(t reflect.Type, namespace string) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if namespace == "" {
		namespace = DefaultNamespace
	}

	name := t.Name()
	if name == "" {
		name = t.String()
	}

	identity := t.PkgPath() + "." + t.String()
	sum := strconv.FormatUint(xxhash.Sum64String(identity), 16)

	return strings.Join([]string{namespace, toSnake(name), sum}, KeySeparator)
}
