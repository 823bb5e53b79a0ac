package routes

import (
	"net/http"

	"github.com/empatecerca/api/internal/app/controllers"
	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Controllers groups the HTTP handlers mounted by SetupRouter
type Controllers struct {
	Auth         *controllers.AuthController
	Discipline   *controllers.DisciplineController
	Volunteer    *controllers.VolunteerController
	Tutor        *controllers.TutorController
	Student      *controllers.StudentController
	Group        *controllers.GroupController
	Progress     *controllers.ProgressController
	Rating       *controllers.RatingController
	Announcement *controllers.AnnouncementController
	Message      *controllers.MessageController
	Dashboard    *controllers.DashboardController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c *Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "pong")
	})

	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}, ""))
	})

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
		auth.POST("/refresh", c.Auth.RefreshToken)
		auth.POST("/logout", c.Auth.Logout)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth(), authMiddleware.ActorRequired())

	adminOnly := authMiddleware.RoleRequired(models.RoleAdmin)
	volunteerOnly := authMiddleware.RoleRequired(models.RoleVolunteer)
	tutorOnly := authMiddleware.RoleRequired(models.RoleTutor)
	adminOrVolunteer := authMiddleware.RoleRequired(models.RoleAdmin, models.RoleVolunteer)
	adminOrTutor := authMiddleware.RoleRequired(models.RoleAdmin, models.RoleTutor)

	authenticated.GET("/auth/me", c.Auth.Me)
	authenticated.PUT("/auth/password", c.Auth.ChangePassword)

	disciplines := authenticated.Group("/disciplines")
	{
		disciplines.GET("", c.Discipline.GetAllDisciplines)
		disciplines.GET("/:id", c.Discipline.GetDisciplineByID)
		disciplines.POST("", adminOnly, c.Discipline.CreateDiscipline)
		disciplines.PUT("/:id", adminOnly, c.Discipline.UpdateDiscipline)
		disciplines.DELETE("/:id", adminOnly, c.Discipline.DeleteDiscipline)
	}

	volunteers := authenticated.Group("/volunteers")
	{
		volunteers.GET("/me", volunteerOnly, c.Volunteer.GetMyProfile)
		volunteers.PUT("/:id/availability", adminOrVolunteer, c.Volunteer.ReplaceAvailability)
		volunteers.GET("/:id/ratings", adminOrVolunteer, c.Volunteer.GetVolunteerRatings)

		volunteersAdmin := volunteers.Group("")
		volunteersAdmin.Use(adminOnly)
		{
			volunteersAdmin.GET("", c.Volunteer.GetAllVolunteers)
			volunteersAdmin.GET("/:id", c.Volunteer.GetVolunteerByID)
			volunteersAdmin.POST("", c.Volunteer.CreateVolunteer)
			volunteersAdmin.PUT("/:id", c.Volunteer.UpdateVolunteer)
			volunteersAdmin.PATCH("/:id/status", c.Volunteer.UpdateVolunteerStatus)
			volunteersAdmin.DELETE("/:id", c.Volunteer.DeleteVolunteer)
			volunteersAdmin.PUT("/:id/groups", c.Volunteer.ReplaceGroups)
		}
	}

	tutors := authenticated.Group("/tutors")
	{
		tutors.GET("/me", tutorOnly, c.Tutor.GetMyProfile)

		tutorsAdmin := tutors.Group("")
		tutorsAdmin.Use(adminOnly)
		{
			tutorsAdmin.GET("", c.Tutor.GetAllTutors)
			tutorsAdmin.GET("/:id", c.Tutor.GetTutorByID)
			tutorsAdmin.POST("", c.Tutor.CreateTutor)
			tutorsAdmin.PUT("/:id", c.Tutor.UpdateTutor)
			tutorsAdmin.DELETE("/:id", c.Tutor.DeleteTutor)
		}
	}

	// Student reads are scoped by the service to the caller's role
	students := authenticated.Group("/students")
	{
		students.GET("", c.Student.GetAllStudents)
		students.GET("/:id", c.Student.GetStudentByID)
		students.GET("/:id/progress", c.Student.GetStudentProgress)
		students.PUT("/:id/medical", adminOrTutor, c.Student.UpdateMedicalRecord)

		studentsAdmin := students.Group("")
		studentsAdmin.Use(adminOnly)
		{
			studentsAdmin.POST("", c.Student.CreateStudent)
			studentsAdmin.PUT("/:id", c.Student.UpdateStudent)
			studentsAdmin.PUT("/:id/group", c.Student.AssignGroup)
			studentsAdmin.DELETE("/:id", c.Student.DeleteStudent)
		}
	}

	groups := authenticated.Group("/groups")
	{
		groups.GET("", adminOrVolunteer, c.Group.GetAllGroups)
		groups.GET("/:id", adminOrVolunteer, c.Group.GetGroupByID)
		groups.GET("/:id/students", adminOrVolunteer, c.Group.GetGroupStudents)

		groupsAdmin := groups.Group("")
		groupsAdmin.Use(adminOnly)
		{
			groupsAdmin.POST("", c.Group.CreateGroup)
			groupsAdmin.PUT("/:id", c.Group.UpdateGroup)
			groupsAdmin.DELETE("/:id", c.Group.DeleteGroup)
			groupsAdmin.PUT("/:id/schedule", c.Group.ReplaceSchedule)
			groupsAdmin.PUT("/:id/volunteers", c.Group.ReplaceVolunteers)
		}
	}

	progress := authenticated.Group("/progress")
	progress.Use(adminOrVolunteer)
	{
		progress.POST("", c.Progress.RecordProgress)
		progress.PUT("/:id", c.Progress.UpdateProgress)
		progress.DELETE("/:id", c.Progress.DeleteProgress)
		progress.GET("", adminOnly, c.Progress.GetAllProgress)
	}

	ratings := authenticated.Group("/ratings")
	{
		ratings.POST("", tutorOnly, c.Rating.CreateRating)
		ratings.GET("", adminOnly, c.Rating.GetAllRatings)
	}

	announcements := authenticated.Group("/announcements")
	{
		announcements.GET("", c.Announcement.GetAnnouncements)
		announcements.POST("/:id/read", c.Announcement.MarkAnnouncementRead)
		announcements.POST("", adminOnly, c.Announcement.CreateAnnouncement)
		announcements.DELETE("/:id", adminOnly, c.Announcement.DeleteAnnouncement)
	}

	messages := authenticated.Group("/messages")
	{
		messages.POST("", c.Message.SendMessage)
		messages.GET("/inbox", c.Message.GetInbox)
		messages.GET("/sent", c.Message.GetSent)
		messages.GET("/unread-count", c.Message.GetUnreadCount)
		messages.GET("/contacts", c.Message.GetContacts)
		messages.GET("/conversation/:userId", c.Message.GetConversation)
		messages.PATCH("/:id/read", c.Message.MarkMessageRead)
		messages.POST("/read-all", c.Message.MarkAllRead)
	}

	authenticated.GET("/dashboard/stats", adminOnly, c.Dashboard.GetStats)
}
