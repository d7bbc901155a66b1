package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultAPIURL is used until the user points the client elsewhere.
const DefaultAPIURL = "http://localhost:3000"

// Settings is everything the client keeps on the device: the minted user
// id and the relay base address.
type Settings struct {
	UserID string `toml:"user_id"`
	APIURL string `toml:"api_url"`
}

// Store reads and writes the settings file.
type Store struct {
	path string
}

// NewStore uses an explicit file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStore places the settings file under the user config directory.
func DefaultStore() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate config directory: %w", err)
	}
	return NewStore(filepath.Join(dir, "eqchat", "config.toml")), nil
}

// Load reads the settings file, returning defaults when it does not exist.
func (s *Store) Load() (Settings, error) {
	settings := Settings{APIURL: DefaultAPIURL}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	if settings.APIURL == "" {
		settings.APIURL = DefaultAPIURL
	}
	return settings, nil
}

// SetAPIURL updates the relay address, leaving the stored identity
// untouched. The identity and the relay URL are independently durable;
// changing one must never clobber the other.
func (s *Store) SetAPIURL(url string) error {
	stored, err := s.Load()
	if err != nil {
		return err
	}
	stored.APIURL = url
	return s.Save(stored)
}

// Save writes the settings atomically via a temp file rename.
func (s *Store) Save(settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "settings-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp settings file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(settings); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp settings file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}
