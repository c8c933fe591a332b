package main

import (
	"context"
	"log"
	"os"

	"github.com/trezcool/coursemaster/core"
	"github.com/trezcool/coursemaster/core/user"
	"github.com/trezcool/coursemaster/storage/mongodb"
)

var logger *log.Logger // todo: logger service

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	db, err := mongodb.Open(conf)
	errAndDie(err)
	defer func() { errAndDie(db.Client().Disconnect(context.Background())) }()
	errAndDie(mongodb.EnsureIndexes(context.Background(), db))

	// start CLI
	cli := commandLine{
		usrSvc: user.NewService(mongodb.NewUserRepository(db)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
