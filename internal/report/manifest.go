package report

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// ManifestEntry is one line of a b2sum manifest
type ManifestEntry struct {
	Digest string
	Path   string // slash separated, relative to the run directory
}

// BuildManifest digests every regular file under root except the manifest
// itself, in lexical path order. The digests are BLAKE2b-512 so the file
// can be checked with `b2sum -c`.
func BuildManifest(root string) ([]ManifestEntry, error) {
	var entries []ManifestEntry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == ManifestFile {
			return nil
		}
		digest, err := digestFile(path)
		if err != nil {
			return err
		}
		entries = append(entries, ManifestEntry{Digest: digest, Path: rel})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("build manifest: %w", err)
	}
	return entries, nil
}

// WriteManifest writes entries in b2sum format to w
func WriteManifest(entries []ManifestEntry, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintf(bw, "%s  %s\n", e.Digest, e.Path); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// VerifyManifest re-digests the files listed in root's manifest and returns
// the paths whose content no longer matches or that went missing
func VerifyManifest(root string) ([]string, error) {
	f, err := os.Open(filepath.Join(root, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	var mismatched []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		digest, path, ok := strings.Cut(sc.Text(), "  ")
		if !ok {
			return nil, fmt.Errorf("malformed manifest line %q", sc.Text())
		}
		got, err := digestFile(filepath.Join(root, filepath.FromSlash(path)))
		if err != nil || got != digest {
			mismatched = append(mismatched, path)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return mismatched, nil
}

func digestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h, err := blake2b.New512(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
