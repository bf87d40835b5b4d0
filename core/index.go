package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/input"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// Shared zstd codecs. EncodeAll and DecodeAll are safe for concurrent use.
var (
	indexEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	indexDecoder, _ = zstd.NewReader(nil)
)

// LoadIndex resolves the repository listing used by the relevance matcher.
// It returns nil (heuristic mode) when indexing is disabled or no repository
// is available. Listings read from git are cached per commit.
func LoadIndex(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) (schema.FileIndex, error) {
	if cfg.NoIndex {
		return nil, nil
	}
	if cfg.IndexFile != "" {
		paths, err := input.LoadIndexFile(cfg.IndexFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load index file: %w", err)
		}
		return schema.NewFileIndex(paths), nil
	}
	if !cfg.HasRepo {
		return nil, nil
	}

	ref := indexRef(cfg)
	commit, err := client.ResolveRef(ctx, cfg.RepoPath, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q for indexing: %w", ref, err)
	}

	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetIndexStore()
	}
	if store == nil {
		// Fallback to direct computation
		paths, err := client.ListFilesAtRef(ctx, cfg.RepoPath, commit)
		if err != nil {
			return nil, fmt.Errorf("failed to list files at %s: %w", ref, err)
		}
		return schema.NewFileIndex(paths), nil
	}

	key := generateIndexKey(cfg.RepoPath, commit)
	if paths := checkIndexHit(store, key); paths != nil {
		return schema.NewFileIndex(paths), nil
	}
	paths, err := computeAndStoreIndex(ctx, cfg, client, store, key, commit)
	if err != nil {
		return nil, err
	}
	return schema.NewFileIndex(paths), nil
}

// indexRef picks the revision whose tree describes the post-change repository.
func indexRef(cfg *contract.Config) string {
	if cfg.UsesGitRefs() && cfg.TargetRef != "" {
		return cfg.TargetRef
	}
	return "HEAD"
}

// checkIndexHit attempts to retrieve and validate a cached listing
func checkIndexHit(store contract.CacheStore, key string) []string {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version != contract.IndexCacheVersion {
		return nil
	}
	if time.Since(time.Unix(ts, 0)) > contract.IndexCacheTTL {
		return nil
	}

	paths, err := decodeIndex(data)
	if err != nil {
		return nil
	}
	return paths
}

// computeAndStoreIndex lists the tree and stores it in cache
func computeAndStoreIndex(ctx context.Context, cfg *contract.Config, client contract.GitClient, store contract.CacheStore, key, commit string) ([]string, error) {
	paths, err := client.ListFilesAtRef(ctx, cfg.RepoPath, commit)
	if err != nil {
		return nil, fmt.Errorf("failed to list files at %s: %w", commit, err)
	}
	if paths == nil {
		paths = []string{}
	}

	if data, err := encodeIndex(paths); err == nil {
		if err := store.Set(key, data, contract.IndexCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Failed to cache repository index", err)
		}
	}
	return paths, nil
}

// generateIndexKey creates a unique key for a repository tree
func generateIndexKey(repoPath, commit string) string {
	key := fmt.Sprintf("%s:%s", repoPath, commit)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}

// encodeIndex serializes a listing as zstd-compressed JSON.
func encodeIndex(paths []string) ([]byte, error) {
	raw, err := json.Marshal(paths)
	if err != nil {
		return nil, err
	}
	return indexEncoder.EncodeAll(raw, nil), nil
}

// decodeIndex reverses encodeIndex.
func decodeIndex(data []byte) ([]string, error) {
	raw, err := indexDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress index: %w", err)
	}
	var paths []string
	if err := json.Unmarshal(raw, &paths); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	if paths == nil {
		paths = []string{}
	}
	return paths, nil
}
