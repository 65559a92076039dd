package backend

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"budget/internal/config"
)

// ErrUnknownBackend is returned for a DATA_BACKEND value no factory handles.
var ErrUnknownBackend = errors.New("unknown backend")

var backendTypes = []BackendType{FileBackend, SQLiteBackend, MemoryBackend}

// GetBackendTypes returns the supported backend types in preference order.
func GetBackendTypes() []BackendType {
	return slices.Clone(backendTypes)
}

func backendNames() string {
	names := make([]string, len(backendTypes))
	for i, bt := range backendTypes {
		names[i] = bt.String()
	}
	return strings.Join(names, ", ")
}

// FromAppConfig picks the storage settings out of the process config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}
	c := Config{
		Type:         BackendType(appConfig.DataBackend),
		BudgetFile:   appConfig.BudgetFile,
		SQLiteDBPath: appConfig.SQLiteDBPath,
	}
	if !c.Type.IsValid() {
		return Config{}, fmt.Errorf("%w %q (want one of %s)", ErrUnknownBackend, appConfig.DataBackend, backendNames())
	}
	return c, nil
}

// Validate reports settings the chosen backend cannot start without. An
// empty BudgetFile is allowed: the file store falls back to budget.json.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("%w %q (want one of %s)", ErrUnknownBackend, c.Type, backendNames())
	}
	if c.Type == SQLiteBackend && c.SQLiteDBPath == "" {
		return errors.New("sqlite backend needs SQLITE_DB_PATH")
	}
	return nil
}
