package main

import (
	"flag"
	"fmt"
	"os"

	"retail-transfers/app/config"
	"retail-transfers/app/database"
	"retail-transfers/app/models"

	"go.uber.org/zap"
)

func main() {
	email := flag.String("email", "", "login email")
	password := flag.String("password", "", "initial password")
	first := flag.String("first", "", "first name")
	last := flag.String("last", "", "last name")
	role := flag.String("role", models.RoleCashier, "role: admin or cashier")
	branch := flag.String("branch", "", "branch name, created when missing")
	flag.Parse()

	if *email == "" || *password == "" || *first == "" {
		fmt.Fprintln(os.Stderr, "usage: add_user -email EMAIL -password PASSWORD -first NAME [-last NAME] [-role admin|cashier] [-branch NAME]")
		os.Exit(2)
	}
	if *role != models.RoleAdmin && *role != models.RoleCashier {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}

	cfg := config.Load()
	log, err := config.NewLogger(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := config.InitDB(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(db, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	user := &models.User{
		FirstName: *first,
		LastName:  *last,
		Email:     *email,
		Password:  *password,
	}
	if *branch != "" {
		id, err := database.CreateBranch(db, *branch)
		if err != nil {
			log.Fatal("failed to create branch", zap.String("branch", *branch), zap.Error(err))
		}
		user.BranchID = &id
	}

	if err := database.CreateUser(db, user, *role); err != nil {
		log.Fatal("failed to create user", zap.String("email", *email), zap.Error(err))
	}

	fmt.Printf("User created successfully: %s (%s, %s)\n", user.FullName(), user.Email, *role)
}
