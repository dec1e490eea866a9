// Package persist defines the storage capability the ACME client uses to
// keep account keys between sessions, together with memory, file and
// redis backed implementations.
package persist

import (
	"fmt"
	"strings"
)

// Kind tells a backend what sort of data a stored value holds, which lets
// file backends pick a sensible extension.
type Kind string

const (
	// KindAccountKey is a PEM encoded ACME account private key.
	KindAccountKey Kind = "account_key"
	// KindCertificate is a PEM encoded certificate chain.
	KindCertificate Kind = "certificate"
)

// Key addresses one stored value. Realm scopes related values (for
// account keys it is always "acme_account"), Name discriminates within
// the realm (the contact email), and Kind describes the payload.
type Key struct {
	Realm string
	Kind  Kind
	Name  string
}

// String renders the key as a single flat identifier. Backends use it as
// the file name or remote key, so characters outside [A-Za-z0-9@.-] in
// Realm and Name are replaced with underscores.
func (k Key) String() string {
	return fmt.Sprintf("%s_%s_%s", clean(k.Realm), k.Kind, clean(k.Name))
}

func clean(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '@', r == '.', r == '-':
			return r
		}
		return '_'
	}, s)
}

// Persist is the capability the client is handed for key storage. Get
// reports found=false for absent keys without error. Implementations are
// responsible for their own read/write atomicity; the client never
// iterates or deletes entries.
type Persist interface {
	Get(key Key) (value []byte, found bool, err error)
	Put(key Key, value []byte) error
}
