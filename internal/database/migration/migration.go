package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_departments",
		SQL: `CREATE TABLE IF NOT EXISTS departments (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name       TEXT        NOT NULL UNIQUE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_rooms",
		SQL: `CREATE TABLE IF NOT EXISTS rooms (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name          TEXT        NOT NULL,
  capacity      INT         NOT NULL CHECK (capacity > 0),
  department_id UUID        NOT NULL REFERENCES departments (id),
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (department_id, name)
);`,
	},
	{
		Name: "create_table_lockers",
		SQL: `CREATE TABLE IF NOT EXISTS lockers (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name       TEXT        NOT NULL,
  capacity   INT         NOT NULL CHECK (capacity > 0),
  room_id    UUID        NOT NULL REFERENCES rooms (id),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (room_id, name)
);`,
	},
	{
		Name: "create_table_folders",
		SQL: `CREATE TABLE IF NOT EXISTS folders (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name       TEXT        NOT NULL,
  capacity   INT         NOT NULL CHECK (capacity > 0),
  locker_id  UUID        NOT NULL REFERENCES lockers (id),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (locker_id, name)
);`,
	},
	{
		Name: "create_table_categories",
		SQL: `CREATE TABLE IF NOT EXISTS categories (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name          TEXT        NOT NULL,
  department_id UUID        NOT NULL REFERENCES departments (id),
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (department_id, name)
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name         TEXT        NOT NULL UNIQUE,
  status       TEXT        NOT NULL CHECK (status IN ('REQUESTING','PENDING','AVAILABLE','BORROWED','DELETED')),
  num_of_pages INT         NOT NULL CHECK (num_of_pages > 0),
  storage_key  TEXT        NOT NULL DEFAULT '',
  folder_id    UUID        NOT NULL REFERENCES folders (id),
  category_id  UUID        NOT NULL REFERENCES categories (id),
  created_by   TEXT        NOT NULL,
  updated_by   TEXT        NOT NULL DEFAULT '',
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_folder_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_folder_status ON documents (folder_id, status);`,
	},
	{
		Name: "create_table_import_requests",
		SQL: `CREATE TABLE IF NOT EXISTS import_requests (
  id              UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  description     TEXT        NOT NULL DEFAULT '',
  status          TEXT        NOT NULL CHECK (status IN ('PENDING','APPROVED','REJECTED','CANCELED','DONE','EXPIRED')),
  expired_at      TIMESTAMPTZ NOT NULL,
  rejected_reason TEXT        NOT NULL DEFAULT '',
  document_id     UUID        NOT NULL UNIQUE REFERENCES documents (id),
  created_by      TEXT        NOT NULL,
  updated_by      TEXT        NOT NULL DEFAULT '',
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_import_requests_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_import_requests_status ON import_requests (status);`,
	},
	{
		Name: "create_table_borrow_requests",
		SQL: `CREATE TABLE IF NOT EXISTS borrow_requests (
  id              UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  description     TEXT        NOT NULL DEFAULT '',
  status          TEXT        NOT NULL CHECK (status IN ('PENDING','APPROVED','REJECTED','CANCELED','DONE','EXPIRED')),
  expired_at      TIMESTAMPTZ NOT NULL,
  rejected_reason TEXT        NOT NULL DEFAULT '',
  document_id     UUID        NOT NULL REFERENCES documents (id),
  start_date      TIMESTAMPTZ NOT NULL,
  borrow_duration INT         NOT NULL CHECK (borrow_duration > 0),
  created_by      TEXT        NOT NULL,
  updated_by      TEXT        NOT NULL DEFAULT '',
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_borrow_requests_document_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_borrow_requests_document_status ON borrow_requests (document_id, status);`,
	},
	{
		Name: "create_table_borrow_histories",
		SQL: `CREATE TABLE IF NOT EXISTS borrow_histories (
  id                UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  document_id       UUID        NOT NULL REFERENCES documents (id),
  borrow_request_id UUID        NOT NULL REFERENCES borrow_requests (id),
  user_id           TEXT        NOT NULL,
  start_date        TIMESTAMPTZ NOT NULL,
  due_date          TIMESTAMPTZ NOT NULL,
  return_date       TIMESTAMPTZ,
  note              TEXT        NOT NULL DEFAULT ''
);`,
	},
	{
		Name: "create_index_borrow_histories_open",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_borrow_histories_open ON borrow_histories (document_id) WHERE return_date IS NULL;`,
	},
	{
		Name: "create_index_borrow_histories_user",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_borrow_histories_user ON borrow_histories (user_id);`,
	},
}

// EnsureMigrated checks if the 'documents' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.documents') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
