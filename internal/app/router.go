package app

import (
	"gradebook_backend/docs"
	"gradebook_backend/internal/config"
	"gradebook_backend/internal/controller"
	"gradebook_backend/internal/middleware"
	"gradebook_backend/internal/util"
	"gradebook_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 教师路由：成绩汇总与导出
	teacher := router.Group("/api/teacher")
	teacher.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.RoleMiddleware(util.RoleTeacher))
	{
		RegisterGradeRoutes(teacher, c.grade)
	}
}

func RegisterGradeRoutes(rg *gin.RouterGroup, grade *controller.GradeController) {
	rg.GET("/courses/:courseId/grades", grade.GetCourseGrades)
	rg.GET("/courses/:courseId/grades/export", grade.ExportCourseGrades)
	rg.POST("/courses/:courseId/grades/export/archive", grade.ArchiveCourseGrades)
	rg.GET("/courses/:courseId/students/:studentId/grades", grade.GetStudentGrades)
}
