// Package persist encodes the task collection and the user preferences into
// two independent records of a key-value byte store.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"taskpad/internal/storage"
	"taskpad/internal/task"
)

const (
	TasksKey       = "todos"
	PreferencesKey = "preferences"
)

type Preferences struct {
	ConfirmDeletion bool `json:"confirmDeletion"`
	InsertAtFront   bool `json:"insertAtFront"`
}

func DefaultPreferences() Preferences {
	return Preferences{ConfirmDeletion: false, InsertAtFront: true}
}

// Adapter implements task.Persister. Reads never fail: missing or corrupt
// records are logged and replaced by their defaults. Writes report errors so
// callers can keep memory and storage in step.
type Adapter struct {
	kv     storage.KV
	logger *slog.Logger
}

func New(kv storage.KV, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{kv: kv, logger: logger}
}

func (a *Adapter) Save(tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	return a.kv.Put(TasksKey, data)
}

func (a *Adapter) Load() []task.Task {
	data, ok := a.read(TasksKey)
	if !ok {
		return []task.Task{}
	}
	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		a.corrupt(TasksKey, err)
		return []task.Task{}
	}
	if err := validate(tasks); err != nil {
		a.corrupt(TasksKey, err)
		return []task.Task{}
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks
}

func (a *Adapter) SavePreferences(p Preferences) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return a.kv.Put(PreferencesKey, data)
}

// LoadPreferences keeps the default for any field the stored record omits.
func (a *Adapter) LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	data, ok := a.read(PreferencesKey)
	if !ok {
		return prefs
	}
	if err := json.Unmarshal(data, &prefs); err != nil {
		a.corrupt(PreferencesKey, err)
		return DefaultPreferences()
	}
	return prefs
}

func (a *Adapter) read(key string) ([]byte, bool) {
	data, ok, err := a.kv.Get(key)
	if err != nil {
		a.logger.Warn("read failed, using defaults", "key", key, "err", err)
		return nil, false
	}
	return data, ok
}

func (a *Adapter) corrupt(key string, err error) {
	a.logger.Warn("stored record is corrupt, using defaults", "key", key, "err", err)
}

var errBlankText = errors.New("blank task text")

func validate(tasks []task.Task) error {
	seen := make(map[int64]struct{}, len(tasks))
	for _, t := range tasks {
		if strings.TrimSpace(t.Text) == "" {
			return fmt.Errorf("task %d: %w", t.ID, errBlankText)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("duplicate task id %d", t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}
