package foreign

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"mscript/internal/object"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var (
	dbMu          sync.Mutex
	dbNextHandle  int64
	dbConnections = map[int64]*sql.DB{}
)

// dbNamespace builds the db object. Connections are tracked by numeric
// handle so scripts only ever hold plain values.
func dbNamespace() *object.Map {
	ns := object.NewMap()
	ns.Set("open", dbOpen())
	ns.Set("query", dbQuery())
	ns.Set("exec", dbExec())
	ns.Set("close", dbClose())
	return ns
}

func dbOpen() *object.Builtin {
	return &object.Builtin{
		Name: "db.open",
		Fn: func(args ...object.Object) object.Object {
			driver, err := unpackString("db.open", args, 0)
			if err != nil {
				return err
			}
			connStr, err := unpackString("db.open", args, 1)
			if err != nil {
				return err
			}

			db, openErr := sql.Open(driver, connStr)
			if openErr != nil {
				return errorf("db.open: %v", openErr)
			}
			if pingErr := db.Ping(); pingErr != nil {
				db.Close()
				return errorf("db.open: %v", pingErr)
			}

			dbMu.Lock()
			dbNextHandle++
			id := dbNextHandle
			dbConnections[id] = db
			dbMu.Unlock()

			return &object.Number{Value: float64(id)}
		},
	}
}

func dbQuery() *object.Builtin {
	return &object.Builtin{
		Name: "db.query",
		Fn: func(args ...object.Object) object.Object {
			db, err := lookupConnection("db.query", args)
			if err != nil {
				return err
			}
			query, err := unpackString("db.query", args, 1)
			if err != nil {
				return err
			}

			rows, queryErr := db.Query(query, bindParams(args[2:])...)
			if queryErr != nil {
				return errorf("db.query: %v", queryErr)
			}
			defer rows.Close()

			return renderRows(rows)
		},
	}
}

func dbExec() *object.Builtin {
	return &object.Builtin{
		Name: "db.exec",
		Fn: func(args ...object.Object) object.Object {
			db, err := lookupConnection("db.exec", args)
			if err != nil {
				return err
			}
			query, err := unpackString("db.exec", args, 1)
			if err != nil {
				return err
			}

			result, execErr := db.Exec(query, bindParams(args[2:])...)
			if execErr != nil {
				return errorf("db.exec: %v", execErr)
			}

			affected, _ := result.RowsAffected()
			lastID, _ := result.LastInsertId()

			resMap := object.NewMap()
			resMap.Set("rowsAffected", &object.Number{Value: float64(affected)})
			resMap.Set("lastInsertId", &object.Number{Value: float64(lastID)})
			return resMap
		},
	}
}

func dbClose() *object.Builtin {
	return &object.Builtin{
		Name: "db.close",
		Fn: func(args ...object.Object) object.Object {
			id, err := unpackNumber("db.close", args, 0)
			if err != nil {
				return err
			}

			dbMu.Lock()
			defer dbMu.Unlock()
			if db, ok := dbConnections[int64(id)]; ok {
				db.Close()
				delete(dbConnections, int64(id))
			}
			return object.NULL
		},
	}
}

func lookupConnection(name string, args []object.Object) (*sql.DB, *object.Error) {
	id, err := unpackNumber(name, args, 0)
	if err != nil {
		return nil, err
	}
	dbMu.Lock()
	db, ok := dbConnections[int64(id)]
	dbMu.Unlock()
	if !ok {
		return nil, errorf("%s: invalid connection handle %d", name, int64(id))
	}
	return db, nil
}

func bindParams(args []object.Object) []interface{} {
	params := make([]interface{}, len(args))
	for i, arg := range args {
		switch arg := arg.(type) {
		case *object.Number:
			params[i] = arg.Value
		case *object.Boolean:
			params[i] = arg.Value
		case *object.Null:
			params[i] = nil
		default:
			params[i] = arg.Inspect()
		}
	}
	return params
}

func renderRows(rows *sql.Rows) object.Object {
	columns, _ := rows.Columns()
	result := &object.Array{}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return errorf("db.query: %v", err)
		}

		row := object.NewMap()
		for i, col := range columns {
			row.Set(col, columnValue(values[i]))
		}
		result.Elements = append(result.Elements, row)
	}
	if err := rows.Err(); err != nil {
		return errorf("db.query: %v", err)
	}
	return result
}

func columnValue(v interface{}) object.Object {
	if v == nil {
		return object.NULL
	}
	switch x := v.(type) {
	case int64:
		return &object.Number{Value: float64(x)}
	case float64:
		return &object.Number{Value: x}
	case []byte:
		return &object.String{Value: string(x)}
	case string:
		return &object.String{Value: x}
	case bool:
		if x {
			return object.TRUE
		}
		return object.FALSE
	case time.Time:
		return &object.String{Value: x.Format(time.RFC3339)}
	default:
		return &object.String{Value: fmt.Sprintf("%v", v)}
	}
}
