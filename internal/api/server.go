package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kinboard/kinboard/internal/service"
)

type Server struct {
	mx                  *chi.Mux
	userService         service.UserServiceI
	familyService       service.FamilyServiceI
	taskService         service.TaskServiceI
	eventService        service.EventServiceI
	achievementService  service.AchievementServiceI
	notificationService service.NotificationServiceI
	jwtService          JWTServiceI
}

type ServicesList struct {
	UserService         service.UserServiceI
	FamilyService       service.FamilyServiceI
	TaskService         service.TaskServiceI
	EventService        service.EventServiceI
	AchievementService  service.AchievementServiceI
	NotificationService service.NotificationServiceI
	JwtService          JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	return &Server{
		mx:                  chi.NewMux(),
		userService:         servicesOptions.UserService,
		familyService:       servicesOptions.FamilyService,
		taskService:         servicesOptions.TaskService,
		eventService:        servicesOptions.EventService,
		achievementService:  servicesOptions.AchievementService,
		notificationService: servicesOptions.NotificationService,
		jwtService:          servicesOptions.JwtService,
	}
}

func (s *Server) routes() {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
			r.Get("/auth/user", s.CurrentUser)
			r.Put("/auth/user", s.UpdateProfile)
			r.Get("/users/{id}/progress", s.GetUserProgress)

			r.Post("/families", s.CreateFamily)
			r.Get("/families/{id}", s.GetFamily)
			r.Post("/families/{id}/join", s.JoinFamily)
			r.Get("/families/{id}/members", s.GetFamilyMembers)
			r.Get("/families/{id}/stats", s.GetFamilyStats)

			r.Post("/tasks", s.CreateTask)
			r.Get("/tasks", s.ListTasks)
			r.Get("/tasks/matrix", s.GetTaskMatrix)
			r.Get("/tasks/today", s.GetTodayTasks)
			r.Get("/tasks/{id}", s.GetTask)
			r.Put("/tasks/{id}", s.UpdateTask)
			r.Post("/tasks/{id}/complete", s.CompleteTask)
			r.Delete("/tasks/{id}", s.DeleteTask)

			r.Post("/events", s.CreateEvent)
			r.Get("/events", s.ListEvents)
			r.Get("/events/{id}", s.GetEvent)
			r.Put("/events/{id}", s.UpdateEvent)
			r.Delete("/events/{id}", s.DeleteEvent)

			r.Get("/achievements", s.ListAchievements)
			r.Post("/achievements", s.CreateAchievement)

			r.Get("/notifications", s.ListNotifications)
			r.Put("/notifications/{id}/read", s.MarkNotificationRead)
		})
	})
}

func (s *Server) Run(addr string) error {
	s.routes()
	return http.ListenAndServe(addr, s.mx)
}
