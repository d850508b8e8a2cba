package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"Postline/cache"
	"Postline/middlewares"
	"Postline/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func (server *Server) Initialize(DbUser, DbPassword, DbPort, DbHost, DbName string) {
	var dsn string

	if strings.EqualFold(os.Getenv("APP_ENV"), "production") {
		dsn = os.Getenv("DATABASE_URL")
		if dsn != "" && !strings.Contains(dsn, "sslmode=") {
			if strings.Contains(dsn, "?") {
				dsn += "&sslmode=require"
			} else {
				dsn += "?sslmode=require"
			}
		}
	} else {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			DbHost, DbUser, DbPassword, DbName, DbPort,
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Cannot connect to Postgres: %v", err)
	}
	server.DB = db

	if err := server.DB.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
		&models.ResetPassword{},
	); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
	if err := ensureFollowConstraints(server.DB); err != nil {
		log.Printf("warning: follow constraints not ensured: %v", err)
	}

	// Redis fronts the global feed page only; start without it if unreachable.
	if err := cache.InitFromEnv(); err != nil {
		log.Printf("warning: could not connect to redis: %v", err)
	}

	if err := seedAdmin(server.DB); err != nil {
		log.Printf("error seeding admin user: %v", err)
	}

	server.Router = gin.Default()
	server.Router.Use(middlewares.CORSMiddleware())
	server.Router.Use(middlewares.RateLimitMiddleware())
	server.initializeRoutes()
}

// seedAdmin bootstraps the one account allowed to manage groups. The
// credentials come from the environment; when they are absent nothing is
// created. Running twice is safe: an existing account is only promoted,
// never duplicated.
func seedAdmin(db *gorm.DB) error {
	adminEmail := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	adminPassword := strings.TrimSpace(os.Getenv("ADMIN_PASSWORD"))
	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", adminEmail).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		admin := models.User{
			Username: strings.Split(adminEmail, "@")[0],
			Email:    adminEmail,
			Password: adminPassword,
			IsAdmin:  true,
		}
		admin.Prepare()
		if msgs := admin.Validate(""); len(msgs) > 0 {
			return fmt.Errorf("admin credentials invalid: %v", msgs)
		}
		_, err = admin.SaveUser(db)
		return err
	}
	if err != nil {
		return err
	}

	if !existing.IsAdmin {
		log.Printf("promoting %s to admin", adminEmail)
		return db.Model(&models.User{}).Where("id = ?", existing.ID).
			Update("is_admin", true).Error
	}
	return nil
}

func (server *Server) Run(addr string) {
	log.Fatal(http.ListenAndServe(addr, server.Router))
}

// ensureFollowConstraints adds the self-follow CHECK the auto migration
// cannot express. The composite unique index comes from the model tags.
func ensureFollowConstraints(db *gorm.DB) error {
	var count int64
	if err := db.Raw(
		"SELECT COUNT(1) FROM pg_constraint WHERE conname = ?",
		"follows_no_self_follow",
	).Scan(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := db.Exec(
			"ALTER TABLE follows ADD CONSTRAINT follows_no_self_follow CHECK (follower_id <> followed_id)",
		).Error; err != nil {
			return err
		}
	}
	return nil
}
