// Package cachekey derives stable cache keys from named scalar parameters
// and normalizes natural-language query text so near-duplicate requests
// land on the same key.
//
// Key shape:
//
//	<prefix>:<hex>  - hex is the first 32 chars of SHA-256 over the
//	                  sorted "name=value" pairs, so two logically equal
//	                  parameter sets always collide on purpose.
//
// Sensitive fields (credentials, tokens) must be excluded by the caller
// before key derivation; this package does no field filtering of its own.
package cachekey

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type kind uint8

const (
	kindInvalid kind = iota
	kindString
	kindInt
	kindFloat
	kindBool
)

// Value is one scalar parameter: a string, integer, float or boolean.
// The zero Value is invalid and makes DeriveKey fail; construct values
// with String, Int, Float or Bool.
type Value struct {
	kind kind
	s    string
	i    int64
	f    float64
	b    bool
}

func String(s string) Value { return Value{kind: kindString, s: s} }
func Int(i int64) Value     { return Value{kind: kindInt, i: i} }
func Float(f float64) Value { return Value{kind: kindFloat, f: f} }
func Bool(b bool) Value     { return Value{kind: kindBool, b: b} }

// encode renders the value with a kind tag so that e.g. Int(1) and
// String("1") never produce the same key material.
func (v Value) encode() (string, bool) {
	switch v.kind {
	case kindString:
		return "s:" + v.s, true
	case kindInt:
		return "i:" + strconv.FormatInt(v.i, 10), true
	case kindFloat:
		return "f:" + strconv.FormatFloat(v.f, 'g', -1, 64), true
	case kindBool:
		return "b:" + strconv.FormatBool(v.b), true
	default:
		return "", false
	}
}

// Params is a set of named scalar parameters. Map iteration order never
// affects the derived key.
type Params map[string]Value

// DeriveKey returns a deterministic key for prefix and params.
// Two Params with the same names and values yield the same key
// regardless of enumeration order. The only failure mode is a zero
// (unset) Value, reported as *DerivationError.
func DeriveKey(prefix string, params Params) (string, error) {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(prefix)
	for _, name := range names {
		enc, ok := params[name].encode()
		if !ok {
			return "", &DerivationError{Prefix: prefix, Param: name, Reason: "unset parameter value"}
		}
		sb.WriteByte('\n')
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(enc)
	}

	sum := sha256.Sum256([]byte(sb.String()))
	return prefix + ":" + hex.EncodeToString(sum[:16]), nil
}

// DerivationError reports a parameter that cannot participate in key
// derivation. It is returned before any cached or wrapped computation runs.
type DerivationError struct {
	Prefix string
	Param  string
	Reason string
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("cachekey: derive %q: param %q: %s", e.Prefix, e.Param, e.Reason)
}

const maxKeyLength = 250

var unsafeKeyRune = func(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case r == '_' || r == '-' || r == ':':
		return false
	default:
		return true
	}
}

// SanitizeKey replaces unsafe characters with '_' and clamps overlong keys
// by splicing a short hash between head and tail. maxLen <= 0 uses the
// default limit of 250. Useful when a caller-provided key is fed to a
// store directly instead of going through DeriveKey.
func SanitizeKey(key string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = maxKeyLength
	}

	sanitized := strings.Map(func(r rune) rune {
		if unsafeKeyRune(r) {
			return '_'
		}
		return r
	}, key)

	if len(sanitized) <= maxLen {
		return sanitized
	}

	headLen := maxLen / 3
	if headLen > 50 {
		headLen = 50
	}
	tailLen := headLen

	sum := sha256.Sum256([]byte(sanitized))
	mid := hex.EncodeToString(sum[:8])
	return sanitized[:headLen] + "_" + mid + "_" + sanitized[len(sanitized)-tailLen:]
}
