package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
)

const fingerprintDomain = "deps-fingerprint/v1"

// BuildConfiguration is everything besides the source revision that affects a CMake build.
type BuildConfiguration struct {
	BuildType   string
	CMake       string
	InstallRoot string
	JobArgs     []string
	GlobalArgs  []string
}

// ComputeFingerprint derives the cache key of a CMake job.
// Every value is length-prefixed so adjacent fields cannot run into each other.
func ComputeFingerprint(revision, installSubdir string, cfg BuildConfiguration) string {
	h := sha256.New()
	writeField(h, fingerprintDomain)
	writeField(h, revision)
	writeField(h, NormalizePath(installSubdir))
	writeField(h, cfg.BuildType)
	writeField(h, cfg.CMake)
	writeField(h, cfg.InstallRoot)
	writeList(h, cfg.JobArgs)
	writeList(h, cfg.GlobalArgs)
	return hex.EncodeToString(h.Sum(nil))
}

func writeField(h hash.Hash, s string) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(s)))
	_, _ = h.Write(n[:])
	_, _ = h.Write([]byte(s))
}

func writeList(h hash.Hash, items []string) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(items)))
	_, _ = h.Write(n[:])
	for _, s := range items {
		writeField(h, s)
	}
}
