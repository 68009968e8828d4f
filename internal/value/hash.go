package value

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/legendsbarber/seqfold/internal/seq"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainRun   = "seqfold/run/v1"
	DomainCall  = "seqfold/call/v1"
	DomainValue = "seqfold/value/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash returns the domain-separated SHA-256 of v's canonical JSON.
func Hash(domain string, v Value) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("Hash: failed to marshal: %w", err)
	}
	return hashWithDomain(domain, canonical), nil
}

// RunID computes the content-addressed ID of a reduce or map invocation.
// An omitted seed and a supplied null seed produce different IDs.
func RunID(op string, sequence, callback Value, seed seq.Option[Value]) (string, error) {
	obj := Object{
		"op":       Str(op),
		"sequence": sequence,
		"callback": callback,
		"has_seed": Bool(seed.IsSome()),
	}
	if s, ok := seed.Get(); ok {
		obj["seed"] = s
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("RunID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRun, canonical), nil
}

// CallID computes the ID of one callback call within a run.
func CallID(runID string, seqNum int64, index int) string {
	obj := Object{
		"run_id": Str(runID),
		"seq":    Int(seqNum),
		"index":  Int(index),
	}
	// Strings and integers always marshal.
	return hashWithDomain(DomainCall, []byte(MustCanonical(obj)))
}

// MustRunID is like RunID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustRunID(op string, sequence, callback Value, seed seq.Option[Value]) string {
	id, err := RunID(op, sequence, callback, seed)
	if err != nil {
		panic(err)
	}
	return id
}
