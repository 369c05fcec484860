package db

import (
	"fmt"

	"github.com/sagarsuperuser/useradmin/internal/common"
	"github.com/sagarsuperuser/useradmin/server/settings"
	"github.com/sagarsuperuser/useradmin/store"
	"github.com/sagarsuperuser/useradmin/store/db/memory"
	"github.com/sagarsuperuser/useradmin/store/db/mysql"
)

// NewDBDriver creates new db driver based on settings.
func NewDBDriver(settings *settings.Settings, now common.NowFunc) (store.Driver, error) {
	switch settings.Driver {
	case "mysql":
		return mysql.NewDB(settings, now), nil
	case "memory":
		return memory.NewDB(now), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", settings.Driver)
	}
}
