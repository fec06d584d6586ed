package store

import (
	"encoding/base64"
	"strings"
)

// Class separates the kinds of entries kept under one namespace.
type Class string

const (
	ClassShader Class = "fragmentSource"
	ClassConfig Class = "config"
)

// Key addresses a single stored entry.
type Key struct {
	Class     Class
	Namespace string
	Name      string
}

func encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// Prefix is the part of every key shared by entries of class in namespace.
func Prefix(class Class, namespace string) string {
	return string(class) + encode(namespace)
}

// String renders the key as it is written to the backend.
func (k Key) String() string {
	return Prefix(k.Class, k.Namespace) + encode(k.Name)
}

// nameOf returns the entry name of key if key was built by Key.String for
// class and namespace. Unpadded namespace encodings are prefixes of longer
// namespaces' encodings, so the remainder must be exactly one encoded name.
func nameOf(key string, class Class, namespace string) (string, bool) {
	rest, ok := strings.CutPrefix(key, Prefix(class, namespace))
	if !ok || rest == "" {
		return "", false
	}
	raw, err := base64.StdEncoding.DecodeString(rest)
	if err != nil || encode(string(raw)) != rest {
		return "", false
	}
	return string(raw), true
}
