package tracker

import (
	"encoding/json"
	"os"
	"path/filepath"

	"PeakSentinel/internal/model"
)

// LoadState reads tracked-symbol state from a JSON file. Returns an empty
// state if the file doesn't exist.
func LoadState(filePath string) (map[string]*model.TrackedSymbol, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]*model.TrackedSymbol), nil
		}
		return nil, err
	}
	var symbols map[string]*model.TrackedSymbol
	if err := json.Unmarshal(data, &symbols); err != nil {
		return nil, err
	}
	if symbols == nil {
		symbols = make(map[string]*model.TrackedSymbol)
	}
	return symbols, nil
}

// SaveState writes the state to a JSON file, creating the parent directory.
func SaveState(filePath string, symbols map[string]*model.TrackedSymbol) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(symbols, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
