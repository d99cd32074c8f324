package main

import (
	"log"
	"os"

	"github.com/joinquran/backend/core"
	"github.com/joinquran/backend/core/customer"
	"github.com/joinquran/backend/storage/jsonstore"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	repo, err := jsonstore.NewCustomerRepository(conf)
	errAndDie(err)

	// start CLI
	cli := commandLine{
		custSvc:  customer.NewService(repo, nil, conf),
		custRepo: repo,
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
