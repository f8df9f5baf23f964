package migrate

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/pos-backend/pkg/config"
	"github.com/angelmondragon/pos-backend/pkg/db"
	"github.com/angelmondragon/pos-backend/pkg/db/models"
)

// TableCount is the number of rows removed from one table.
type TableCount struct {
	Table   string
	Deleted int64
}

// ClearData empties every model table in one transaction, children before
// parents, and keeps the schema. Production environments are refused.
func ClearData(ctx context.Context, app config.AppConfig, client *db.Client) ([]TableCount, error) {
	if client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if app.IsProd() {
		return nil, fmt.Errorf("refusing to clear data in %s", app.Env)
	}

	all := models.All()
	counts := make([]TableCount, 0, len(all))
	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		for i := len(all) - 1; i >= 0; i-- {
			stmt := &gorm.Statement{DB: tx}
			if err := stmt.Parse(all[i]); err != nil {
				return fmt.Errorf("parsing model %T: %w", all[i], err)
			}
			res := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(all[i])
			if res.Error != nil {
				return fmt.Errorf("clearing %s: %w", stmt.Schema.Table, res.Error)
			}
			counts = append(counts, TableCount{Table: stmt.Schema.Table, Deleted: res.RowsAffected})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}
