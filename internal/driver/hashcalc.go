package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"mojes/internal/hir"
	"mojes/internal/lower"
	"mojes/internal/naming"
	"mojes/internal/version"
)

// Digest is a SHA-256 content hash.
type Digest [sha256.Size]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero reports whether d was never computed.
func (d Digest) IsZero() bool { return d == Digest{} }

func digestBytes(b []byte) Digest {
	return Digest(sha256.Sum256(b))
}

// combineDigest: H(content || part1 || 0 || part2 || 0 ...). parts уже в детерминированном порядке.
func combineDigest(content Digest, parts ...string) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// fragmentKey identifies the lowering of fn under the given options and
// name resolution context. Positions are part of the encoded function, so
// a moved function gets a fresh entry.
func fragmentKey(fn *hir.Func, opts lower.Options, policy *naming.Policy, later []string) (Digest, error) {
	data, err := hir.Encode([]*hir.Func{fn}, hir.WireMsgpack)
	if err != nil {
		return Digest{}, err
	}
	return combineDigest(digestBytes(data),
		version.Fingerprint(),
		opts.Dialect.String(),
		opts.Duplicates.String(),
		policy.Catalog().Fingerprint(),
		strings.Join(policy.Functions(), ","),
		strings.Join(later, ","),
	), nil
}
