package sqlite

// Schema DDL. One row per store key; payload holds the JSON record list.
const (
	createState = `CREATE TABLE IF NOT EXISTS state (
    bucket TEXT PRIMARY KEY,
    payload BLOB NOT NULL,
    updated_at TEXT NOT NULL
);`
)

// schemaDDL lists all CREATE statements in dependency order.
var schemaDDL = []string{
	createState,
}

// dbFileName is the database file created inside DataDir.
const dbFileName = "partsbin.db"
