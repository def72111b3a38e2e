package main

import (
	"flag"
	"log"
	"os"

	"github.com/broconnector/gmw-map/internal/auth"
	"github.com/broconnector/gmw-map/internal/db"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")

	var (
		username = flag.String("username", "", "login name")
		password = flag.String("password", os.Getenv("MAP_USER_PASSWORD"), "password (defaults to MAP_USER_PASSWORD)")
		role     = flag.String("role", "viewer", "viewer or admin")
	)
	flag.Parse()

	if *username == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	db.Connect()
	auth.Init()

	user, err := auth.CreateUser(db.DB, *username, *password, *role)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Created user %s (%s)", user.Username, user.UserID)
}
