package mpris

import (
	"os"
	"path/filepath"
	"strings"
)

// coverStems lists album art base names in priority order.
var coverStems = []string{"cover", "folder", "album", "front"}

var coverExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// FindAlbumArt looks for album art next to the track, matching names
// case-insensitively. Returns the path to the art file, or "" if none.
func FindAlbumArt(trackPath string) string {
	dir := filepath.Dir(trackPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	best, bestRank := "", len(coverStems)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		ext := filepath.Ext(name)
		if !coverExts[ext] {
			continue
		}
		for rank, stem := range coverStems[:bestRank] {
			if strings.TrimSuffix(name, ext) == stem {
				best, bestRank = filepath.Join(dir, e.Name()), rank
				break
			}
		}
	}
	return best
}
