package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Job is one photo and the segmentation mask produced for it.
type Job struct {
	Name      string // photo file stem
	PhotoPath string
	MaskPath  string
}

var imageExts = map[string]int{
	// lower value wins when a stem has several files
	".png":  0,
	".webp": 1,
	".tga":  2,
	".jpg":  3,
	".jpeg": 4,
	".gif":  5,
}

// Discover pairs every photo in dir with a mask named <stem><maskSuffix>.<ext>.
// Photos without a mask are returned in missing.
func Discover(dir, maskSuffix string) (jobs []Job, missing []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("batch: read %s: %w", dir, err)
	}

	photos := make(map[string]string) // stem → path
	masks := make(map[string]string)  // lower photo stem → path
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		rank, ok := imageExts[ext]
		if !ok {
			continue
		}
		path := filepath.Join(dir, e.Name())
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))

		target := photos
		key := strings.ToLower(stem)
		if suffix := strings.ToLower(maskSuffix); suffix != "" && strings.HasSuffix(key, suffix) {
			target = masks
			key = strings.TrimSuffix(key, suffix)
		}

		existing, exists := target[key]
		if !exists || rank < imageExts[strings.ToLower(filepath.Ext(existing))] {
			target[key] = path
		}
	}

	for key, photo := range photos {
		mask, ok := masks[key]
		if !ok {
			missing = append(missing, photo)
			continue
		}
		base := filepath.Base(photo)
		jobs = append(jobs, Job{
			Name:      strings.TrimSuffix(base, filepath.Ext(base)),
			PhotoPath: photo,
			MaskPath:  mask,
		})
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })
	sort.Strings(missing)
	return jobs, missing, nil
}
