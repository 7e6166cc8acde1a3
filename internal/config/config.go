package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"taskpad/internal/task"
)

const (
	AppName               = "taskpad"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "taskpad.db"
	DefaultLogName        = "taskpad.log"
)

type Keymap struct {
	Quit            string `toml:"quit"`
	Add             string `toml:"add"`
	Up              string `toml:"up"`
	Down            string `toml:"down"`
	Toggle          string `toml:"toggle"`
	Delete          string `toml:"delete"`
	Copy            string `toml:"copy"`
	MoveUp          string `toml:"move_up"`
	MoveDown        string `toml:"move_down"`
	FilterAll       string `toml:"filter_all"`
	FilterActive    string `toml:"filter_active"`
	FilterCompleted string `toml:"filter_completed"`
	CycleFilter     string `toml:"cycle_filter"`
	ToggleConfirm   string `toml:"toggle_confirm"`
	TogglePosition  string `toml:"toggle_position"`
	Confirm         string `toml:"confirm"`
	Cancel          string `toml:"cancel"`
}

type Config struct {
	DBPath         string `toml:"db_path"`
	LogPath        string `toml:"log_path"`
	DefaultFilter  string `toml:"default_filter"`
	DragHandleOnly bool   `toml:"drag_handle_only"`
	Keys           Keymap `toml:"keys"`
}

// ResolveConfigPath returns $XDG_CONFIG_HOME/taskpad/config.toml, falling
// back to ~/.config and finally the working directory.
func ResolveConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName, DefaultConfigFileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(home, ".config", AppName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first if
// the file does not exist. Relative db and log paths are resolved against the
// config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.LogPath == "" {
		cfg.LogPath = DefaultLogName
	}
	if _, err := task.ParseFilter(cfg.DefaultFilter); err != nil {
		cfg.DefaultFilter = task.FilterAll.String()
	}
	return cfg.resolve(filepath.Dir(path)), nil
}

// Filter is the parsed default filter.
func (c Config) Filter() task.Filter {
	f, _ := task.ParseFilter(c.DefaultFilter)
	return f
}

func (c Config) resolve(dir string) Config {
	if !filepath.IsAbs(c.DBPath) && !isURI(c.DBPath) {
		c.DBPath = filepath.Join(dir, c.DBPath)
	}
	if !filepath.IsAbs(c.LogPath) {
		c.LogPath = filepath.Join(dir, c.LogPath)
	}
	return c
}

func isURI(p string) bool {
	return len(p) >= 5 && p[:5] == "file:"
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:        DefaultDBName,
		LogPath:       DefaultLogName,
		DefaultFilter: "all",
		Keys: Keymap{
			Quit:            "q",
			Add:             "a",
			Up:              "k",
			Down:            "j",
			Toggle:          " ",
			Delete:          "d",
			Copy:            "y",
			MoveUp:          "K",
			MoveDown:        "J",
			FilterAll:       "1",
			FilterActive:    "2",
			FilterCompleted: "3",
			CycleFilter:     "f",
			ToggleConfirm:   "c",
			TogglePosition:  "p",
			Confirm:         "enter",
			Cancel:          "esc",
		},
	}
}
