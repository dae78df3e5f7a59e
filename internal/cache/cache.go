package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"qatrack/internal/utils"
)

// ViewState is the projection the user last looked at, kept between runs
type ViewState struct {
	SuiteID      string `json:"suite_id"`
	StatusFilter string `json:"status_filter"`
	Page         int    `json:"page"`
	Timestamp    int64  `json:"timestamp"`
}

// GetCacheDir returns the XDG-compliant cache directory path
func GetCacheDir() (string, error) {
	cacheDir, err := utils.CacheDir()
	if err != nil {
		return "", err
	}
	return cacheDir, os.MkdirAll(cacheDir, 0755)
}

// GetCacheFile returns the full path to the view state cache file
func GetCacheFile() (string, error) {
	cacheDir, err := GetCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "view.json"), nil
}

// LoadViewState loads the view state from the cache file
func LoadViewState() (ViewState, error) {
	cacheFile, err := GetCacheFile()
	if err != nil {
		return ViewState{}, err
	}

	data, err := os.ReadFile(cacheFile)
	if err != nil {
		return ViewState{}, err
	}

	var state ViewState
	if err := json.Unmarshal(data, &state); err != nil {
		return ViewState{}, err
	}
	return state, nil
}

// SaveViewState saves the view state to the cache file with timestamp
func SaveViewState(state ViewState) error {
	cacheFile, err := GetCacheFile()
	if err != nil {
		return err
	}

	state.Timestamp = time.Now().Unix()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(cacheFile, data, 0644)
}

// LoadViewStateOrDefault returns the cached state, or an empty one if there is none
func LoadViewStateOrDefault() ViewState {
	state, err := LoadViewState()
	if err != nil {
		return ViewState{}
	}
	return state
}
