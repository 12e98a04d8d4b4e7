package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/career-roadmap-api/internal/middleware"
	"github.com/noah-isme/career-roadmap-api/internal/models"
)

// Routes groups the handlers mounted under the API prefix.
type Routes struct {
	Auth       *AuthHandler
	Students   *StudentHandler
	Photos     *PhotoHandler
	Records    *RecordsHandler
	Feedback   *FeedbackHandler
	Dashboard  *DashboardHandler
	Portfolio  *PortfolioHandler
	Documents  *DocumentHandler
	Authorizer middleware.TokenAuthorizer
}

// Register mounts every API route on group.
func (rt Routes) Register(group gin.IRouter) {
	auth := group.Group("/auth")
	auth.POST("/student/login", rt.Auth.StudentLogin)
	auth.POST("/student/logout", rt.Auth.StudentLogout)
	auth.GET("/student/me", rt.Auth.StudentMe)
	auth.POST("/admin/login", rt.Auth.AdminLogin)
	auth.POST("/admin/logout", rt.Auth.AdminLogout)
	auth.GET("/admin/me", rt.Auth.AdminMe)
	auth.POST("/signup", rt.Auth.SignUp)

	group.POST("/feedback/generate", rt.Feedback.Generate)
	group.GET("/share/portfolio/:token", rt.Portfolio.Shared)
	group.GET("/ws/documents", rt.Documents.Stream)

	me := group.Group("/me", middleware.JWT(rt.Authorizer), middleware.RequireRoles(models.RoleStudent))
	me.GET("/dashboard", rt.Dashboard.Dashboard)
	me.GET("/photo", rt.Photos.Mine)
	me.GET("/projects", rt.Records.MyProjects)
	me.GET("/feedback", rt.Records.MyFeedback)
	me.GET("/goals", rt.Dashboard.Goals)
	me.POST("/goals", rt.Dashboard.AddGoal)
	me.POST("/goals/:id/toggle", rt.Dashboard.ToggleGoal)
	me.DELETE("/goals/:id", rt.Dashboard.DeleteGoal)
	me.GET("/roadmap", rt.Dashboard.Roadmap)
	me.PUT("/roadmap/:grade", rt.Dashboard.UpdateRoadmap)
	me.GET("/activities", rt.Dashboard.Activities)

	admin := group.Group("/admin", middleware.JWT(rt.Authorizer), middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/photos", rt.Photos.List)
	admin.GET("/feedback/jobs/:id", rt.Feedback.JobStatus)

	students := admin.Group("/students")
	students.GET("", rt.Students.List)
	students.POST("", rt.Students.Create)
	students.POST("/import", rt.Students.Import)
	students.GET("/export", rt.Students.Export)
	students.POST("/reset", rt.Students.Reset)

	student := students.Group("/:number")
	student.GET("", rt.Students.Get)
	student.PATCH("", rt.Students.Update)
	student.DELETE("", rt.Students.Delete)

	student.GET("/photo", rt.Photos.Get)
	student.PUT("/photo", rt.Photos.Set)
	student.GET("/photo/thumbnail", rt.Photos.Thumbnail)

	student.GET("/projects", rt.Records.ListProjects)
	student.POST("/projects", rt.Records.AddProject)
	student.GET("/projects/:id", rt.Records.GetProject)
	student.PATCH("/projects/:id", rt.Records.UpdateProject)
	student.DELETE("/projects/:id", rt.Records.DeleteProject)
	student.GET("/projects/:id/feedback", rt.Records.GetFeedback)
	student.POST("/projects/:id/feedback", rt.Feedback.GenerateForProject)
	student.DELETE("/projects/:id/feedback", rt.Records.DeleteFeedback)
	student.POST("/projects/:id/feedback/jobs", rt.Feedback.Enqueue)

	student.GET("/counseling", rt.Records.ListCounseling)
	student.POST("/counseling", rt.Records.AddCounseling)
	student.PATCH("/counseling/:id", rt.Records.UpdateCounseling)
	student.DELETE("/counseling/:id", rt.Records.DeleteCounseling)

	student.GET("/grades", rt.Records.ListGrades)
	student.POST("/grades", rt.Records.AddGrade)
	student.PATCH("/grades/:id", rt.Records.UpdateGrade)
	student.DELETE("/grades/:id", rt.Records.DeleteGrade)

	student.GET("/portfolio.pdf", rt.Portfolio.Download)
	student.POST("/portfolio/share", rt.Portfolio.Share)
}
