// Command mro-demo runs the mapper against a live MySQL server: it
// creates a users table, saves a row, looks it up by secondary key,
// selects by pattern and deletes the row again.
package main

import (
	"database/sql"
	"flag"
	"log"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"

	"github.com/brushtech/mro"
	"github.com/brushtech/mro/qb"
)

type config struct {
	// DSN like "root:password@tcp(localhost:3306)/testdb?parseTime=true"
	DSN string `yaml:"dsn"`
}

var users = mro.MustSchema("users",
	mro.Serial("id", mro.PrimaryKey()),
	mro.String("username", mro.SecondaryKey()),
	mro.String("hash"),
	mro.Timestamp("time", mro.NotNull(), mro.Default("CURRENT_TIMESTAMP")),
)

func main() {
	cfgPath := flag.String("config", "mro-demo.yaml", "config file")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	sqlDB, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	if err = sqlDB.Ping(); err != nil {
		log.Fatal(err)
	}
	db := mro.NewDB(sqlDB)

	if err = users.Create(db); err != nil {
		log.Fatal(err)
	}

	bob, err := users.NewRecord(qb.H{"username": "bob", "hash": "1234"})
	if err != nil {
		log.Fatal(err)
	}
	if err = bob.Save(db); err != nil {
		log.Fatal(err)
	}
	log.Printf("saved %s", bob)

	again, err := users.FindByKey(db, "bob")
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("found %s", again)

	rs, err := users.Select(db, "username LIKE $u", qb.H{"u": "bo%"})
	if err != nil {
		log.Fatal(err)
	}
	matches, err := rs.All()
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("%d rows match bo%%", len(matches))

	if err = again.Delete(db); err != nil {
		log.Fatal(err)
	}

	gone, err := users.Get(db, "bob")
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("after delete: %v", gone)
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &config{}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
