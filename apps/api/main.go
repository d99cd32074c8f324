package main

import (
	"context"
	"fmt"
	"log"
	"os"

	echoapi "github.com/joinquran/backend/apps/api/echo"
	"github.com/joinquran/backend/core"
	"github.com/joinquran/backend/core/customer"
	"github.com/joinquran/backend/core/review"
	"github.com/joinquran/backend/core/student"
	chatsvc "github.com/joinquran/backend/services/chat"
	emailsvc "github.com/joinquran/backend/services/email"
	logsvc "github.com/joinquran/backend/services/logger"
	prayersvc "github.com/joinquran/backend/services/prayer"
	"github.com/joinquran/backend/storage/jsonstore"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up repositories
	studentRepo, err := jsonstore.NewStudentRepository(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up student store: %v", err), err)
	}
	reviewRepo, err := jsonstore.NewReviewRepository(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up review store: %v", err), err)
	}
	customerRepo, err := jsonstore.NewCustomerRepository(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up customer store: %v", err), err)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	studentSvc := student.NewService(studentRepo)
	reviewSvc := review.NewService(reviewRepo)
	customerSvc := customer.NewService(customerRepo, mailSvc, conf)
	prayerSvc := prayersvc.NewService(conf)
	chatSvc := chatsvc.NewService(conf)

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:        conf,
		Logger:      logger,
		StudentSvc:  studentSvc,
		ReviewSvc:   reviewSvc,
		CustomerSvc: customerSvc,
		MailSvc:     mailSvc,
		PrayerSvc:   prayerSvc,
		ChatSvc:     chatSvc,
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
