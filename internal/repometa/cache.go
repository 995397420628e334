package repometa

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/metagov/dao-governance-surfaces/pkg/shared/files"
)

const cacheFileName = "repometa.json"

// cache is a JSON file mapping repository URLs to resolved metadata. Load
// failures are treated as an empty cache.
type cache struct {
	path    string
	entries map[string]*Metadata
}

func newCache(folder string) *cache {
	c := &cache{
		path:    filepath.Join(folder, cacheFileName),
		entries: make(map[string]*Metadata),
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return c
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		c.entries = make(map[string]*Metadata)
	}
	return c
}

func (c *cache) get(url string) *Metadata {
	return c.entries[url]
}

func (c *cache) put(url string, meta *Metadata) error {
	c.entries[url] = meta

	if err := files.CreateFolderIfNotExists(filepath.Dir(c.path)); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0644)
}
