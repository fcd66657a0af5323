// @title Kinboard API
// @description API for the family task/calendar coordination app "Kinboard"
// @BasePath /api
// @schemes http
package main

import (
	"log"

	"github.com/kinboard/kinboard/internal/api"
	"github.com/kinboard/kinboard/internal/repository"
	"github.com/kinboard/kinboard/internal/service"
	"github.com/kinboard/kinboard/pkg/cleanup"
	"github.com/kinboard/kinboard/pkg/config"
	jwtservice "github.com/kinboard/kinboard/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	defer cleanup.CleanUp()
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	usersRepo := repository.NewUsersRepo(&dbCfg)
	tasksRepo := repository.NewTasksRepo(&dbCfg)
	notificationsRepo := repository.NewNotificationsRepo(&dbCfg)

	serv := api.New(&api.ServicesList{
		UserService:         service.NewUserService(usersRepo),
		FamilyService:       service.NewFamilyService(repository.NewFamiliesRepo(&dbCfg), usersRepo, tasksRepo),
		TaskService:         service.NewTaskService(tasksRepo, notificationsRepo),
		EventService:        service.NewEventService(repository.NewEventsRepo(&dbCfg)),
		AchievementService:  service.NewAchievementService(repository.NewAchievementsRepo(&dbCfg), usersRepo),
		NotificationService: service.NewNotificationService(notificationsRepo),
		JwtService:          jwtservice.New(cfg.GetString("JWT_SECRET")),
	})
	err := serv.Run(cfg.GetStringOr("API_ADDRESS", ":8080"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
