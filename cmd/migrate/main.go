package main

import (
	"database/sql"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"gamehall-server/pkg/db"
)

func main() {
	_ = godotenv.Load()
	waitForDB()
	db.Migrate()
}

func waitForDB() {
	timeout := time.NewTimer(time.Second * 10)
	for {
		select {
		case <-timeout.C:
			logrus.Fatal("could not connect to database")
		default:
			dbh := func() *sql.DB {
				defer func() { _ = recover() }()
				return db.Instance()
			}()

			if dbh != nil {
				return
			}

			time.Sleep(time.Millisecond * 500)
		}
	}
}
