package shortener

import (
	"context"
	"crypto/md5" //nolint:gosec // content addressing, not a security boundary
	"encoding/base64"
	"strconv"
	"strings"
)

// FirstIdentifier is the first identifier a Dictionary hands out per class.
// Identifiers below it are reserved so every identifier has at least two
// base-16 digits.
const FirstIdentifier uint64 = 0x10

// Hasher turns a URL into its short hash.
type Hasher interface {
	Hash(ctx context.Context, rawURL string) (Hash, error)
}

// pathSafe replaces the base64 characters that are unsafe in a path segment.
var pathSafe = strings.NewReplacer("/", "-", "+", "_", "=", "")

// DigestHasher derives the hash from the URL content alone.
// The same URL always yields the same 22 character hash.
type DigestHasher struct{}

// NewDigestHasher creates the default content digest hasher.
func NewDigestHasher() *DigestHasher {
	return &DigestHasher{}
}

func (DigestHasher) Hash(_ context.Context, rawURL string) (Hash, error) {
	return DigestHash(rawURL), nil
}

// DigestHash computes the content digest hash of rawURL.
func DigestHash(rawURL string) Hash {
	sum := md5.Sum([]byte(rawURL)) //nolint:gosec // see import

	return Hash(pathSafe.Replace(base64.StdEncoding.EncodeToString(sum[:])))
}

// DictionaryHasher builds the hash from per-component identifiers kept in a
// Dictionary. Recurring protocols, domains and paths yield shorter hashes than
// the digest strategy.
type DictionaryHasher struct {
	dict Dictionary
}

// NewDictionaryHasher creates a dictionary-based hasher.
func NewDictionaryHasher(dict Dictionary) *DictionaryHasher {
	return &DictionaryHasher{dict: dict}
}

func (h *DictionaryHasher) Hash(ctx context.Context, rawURL string) (Hash, error) {
	parts, err := SplitURL(rawURL)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	for _, component := range []struct {
		class ComponentClass
		value string
	}{
		{ClassProtocol, parts.Protocol},
		{ClassDomain, parts.Domain},
		{ClassPath, parts.Path},
	} {
		id, err := h.dict.Identify(ctx, component.class, component.value)
		if err != nil {
			return "", persistenceError("identify "+string(component.class), err)
		}

		b.WriteString(strconv.FormatUint(id, 16))
	}

	return Hash(b.String()), nil
}

// NewHasher returns the dictionary hasher when useDictionary is set and the
// digest hasher otherwise.
func NewHasher(useDictionary bool, dict Dictionary) Hasher {
	if useDictionary {
		return NewDictionaryHasher(dict)
	}

	return NewDigestHasher()
}
