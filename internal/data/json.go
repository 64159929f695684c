package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"imbalance-report/internal/model"
)

// LoadSystemPricesJSON reads a saved system-prices response from disk.
func LoadSystemPricesJSON(path string) (*model.SystemPricesResponse, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var resp model.SystemPricesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &resp, nil
}

// SaveSystemPricesJSON writes resp to path, creating parent directories.
func SaveSystemPricesJSON(resp *model.SystemPricesResponse, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	raw, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// LoadSystemPricesPaths loads and concatenates every response in paths.
// A directory contributes each *.json file it holds, in name order.
func LoadSystemPricesPaths(paths []string) (*model.SystemPricesResponse, error) {
	out := &model.SystemPricesResponse{}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		files := []string{p}
		if info.IsDir() {
			entries, err := os.ReadDir(p)
			if err != nil {
				return nil, err
			}
			files = files[:0]
			for _, e := range entries {
				if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
					continue
				}
				files = append(files, filepath.Join(p, e.Name()))
			}
		}
		for _, f := range files {
			resp, err := LoadSystemPricesJSON(f)
			if err != nil {
				return nil, err
			}
			out.Data = append(out.Data, resp.Data...)
		}
	}
	return out, nil
}
